package jobs

import (
	"log"
	"time"

	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
)

const pendingPaymentTTL = 24 * time.Hour

// CancelAbandonedPayments cancels payments that never received a gateway
// webhook. The status guard means a fulfillment racing this job always wins.
func CancelAbandonedPayments() {
	log.Println("Running job: CancelAbandonedPayments...")

	cutoff := time.Now().Add(-pendingPaymentTTL)

	res := database.DB.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusCancelled)
	if res.Error != nil {
		log.Printf("Error cancelling abandoned payments: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("Cancelled %d abandoned pending payments", res.RowsAffected)
	}
}
