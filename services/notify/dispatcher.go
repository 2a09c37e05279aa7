package notify

import (
	"log"

	"learnhub/services/ledger"
)

// Dispatcher fans a ledger event out to every registered sink.
type Dispatcher struct {
	sinks []ledger.EventSink
}

func NewDispatcher(sinks ...ledger.EventSink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Publish(event ledger.Event) {
	for _, sink := range d.sinks {
		sink.Publish(event)
	}
}

// LogSink writes every event to the application log.
type LogSink struct{}

func (LogSink) Publish(event ledger.Event) {
	log.Printf("[EVENT] %s: %+v", event.Name(), event)
}
