package notify

import (
	"log"
	"time"

	"learnhub/services/ledger"

	"github.com/go-resty/resty/v2"
)

// WebhookSink posts ledger events to an external endpoint as JSON.
// Delivery is fire-and-forget: a failed post is logged and dropped.
type WebhookSink struct {
	client *resty.Client
	url    string
}

func NewWebhookSink(url string) *WebhookSink {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &WebhookSink{client: client, url: url}
}

func (s *WebhookSink) Publish(event ledger.Event) {
	go func() {
		resp, err := s.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event":   event.Name(),
				"payload": event,
			}).
			Post(s.url)
		if err != nil {
			log.Printf("[NOTIFY] Webhook delivery failed for %s: %v", event.Name(), err)
			return
		}
		if resp.IsError() {
			log.Printf("[NOTIFY] Webhook endpoint returned %d for %s", resp.StatusCode(), event.Name())
		}
	}()
}
