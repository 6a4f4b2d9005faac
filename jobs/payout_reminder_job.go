package jobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/chinedu-ok/eventpass/configs"
	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/notifications"
)

const stuckPayoutAge = 48 * time.Hour

// RemindStuckPayouts emails the admin a list of payouts that have sat in
// processing long enough to need manual reconciliation.
func RemindStuckPayouts() {
	log.Println("Running job: RemindStuckPayouts...")

	cutoff := time.Now().Add(-stuckPayoutAge)

	var stuck []models.PayoutRequest
	err := database.DB.Preload("Organizer").
		Where("status = ? AND processed_at < ?", models.PayoutStatusProcessing, cutoff).
		Find(&stuck).Error
	if err != nil {
		log.Printf("Error checking for stuck payouts: %v", err)
		return
	}

	if len(stuck) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("<h1>Payouts Needing Manual Reconciliation</h1><ul>")
	for _, p := range stuck {
		fmt.Fprintf(&b, "<li>%s | %s | ₦%.2f | requested %s</li>",
			p.ID, p.Organizer.Email, float64(p.Amount)/100, p.RequestedAt.Format("2006-01-02"))
	}
	b.WriteString("</ul>")

	adminEmail := config.Config("ADMIN_EMAIL")
	go notifications.SendEmail("Admin", adminEmail,
		fmt.Sprintf("%d payouts stuck in processing", len(stuck)), b.String())
}
