// Package services wires the ledger and its collaborators once at startup
// and exposes the shared instance to the controllers.
package services

import (
	"learnhub/config"
	"learnhub/database"
	"learnhub/repository"
	"learnhub/services/ledger"
	"learnhub/services/notify"
)

// Ledger is the shared enrollment ledger instance.
var Ledger *ledger.Service

// Init builds the ledger from the global database handle. Call after
// database.ConnectDb.
func Init() {
	db := database.Database.Db

	sinks := []ledger.EventSink{notify.LogSink{}, notify.NewEmailSink()}
	if config.AppConfig.EventWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(config.AppConfig.EventWebhookURL))
	}

	Ledger = ledger.NewService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseCatalog(db),
		repository.NewAccountDirectory(db),
		notify.NewDispatcher(sinks...),
	)
}
