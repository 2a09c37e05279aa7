package utils

import (
	"log"
	"time"

	"learnhub/database"
	courseModels "learnhub/models/course"

	"github.com/robfig/cron/v3"
)

// pendingPaymentTTL is how long an enrollment may sit with an unconfirmed
// payment before it is marked failed.
const pendingPaymentTTL = 48 * time.Hour

// InitializePaymentScheduler sets up the stale-payment reaper
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run daily at 2 AM to fail stale pending payments
	c.AddFunc("0 2 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running stale payment check...")
		ExpireStalePendingPayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs daily at 2 AM")
}

// ExpireStalePendingPayments marks enrollments whose payment was never
// confirmed as failed. Progress and membership records are left untouched;
// refund or removal is an administrative decision.
func ExpireStalePendingPayments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-pendingPaymentTTL)

	res := db.Model(&courseModels.Enrollment{}).
		Where("payment_status = ? AND enrolled_at < ?", courseModels.PaymentPending, cutoff).
		Update("payment_status", courseModels.PaymentFailed)
	if res.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error expiring pending payments: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Marked %d stale pending payments as failed", res.RowsAffected)
	}
}
