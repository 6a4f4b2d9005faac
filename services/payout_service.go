package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/notifications"
	"github.com/chinedu-ok/eventpass/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPayoutNotPending = errors.New("payout request is not pending")

// ApprovePayout moves a pending payout to processing, then attempts the
// external transfer. A failed gateway call leaves the payout in processing so
// it is queued for manual follow-up instead of silently lost; only an
// immediate gateway success marks it completed.
func ApprovePayout(db *gorm.DB, payoutID uuid.UUID, adminNotes string) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := db.Preload("Organizer").First(&payout, "id = ?", payoutID).Error; err != nil {
		return nil, err
	}

	if payout.BankCode == "" || payout.AccountNumber == "" {
		return nil, errors.New("payout request is missing bank destination details")
	}

	now := time.Now()

	// Status-guarded update: two admins clicking approve at once must not
	// both initiate a transfer.
	res := db.Model(&models.PayoutRequest{}).
		Where("id = ? AND status = ?", payout.ID, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PayoutStatusProcessing,
			"admin_notes":  adminNotes,
			"processed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPayoutNotPending
	}
	payout.Status = models.PayoutStatusProcessing
	payout.ProcessedAt = &now

	recipientName := payout.AccountName
	if recipientName == "" {
		recipientName = payout.Organizer.FullName
	}

	recipient, err := payments.CreateTransferRecipient(recipientName, payout.AccountNumber, payout.BankCode)
	if err != nil {
		log.Printf("🔥 Failed to create transfer recipient for payout %s: %v", payout.ID, err)
		notifyPayoutOutcome(payout, false)
		return &payout, nil
	}
	db.Model(&payout).Update("recipient_code", recipient.Data.RecipientCode)

	transferRef := fmt.Sprintf("payout-%s", payout.ID)
	transfer, err := payments.InitiateTransfer(payout.Amount, recipient.Data.RecipientCode, transferRef,
		"Organizer earnings payout")
	if err != nil {
		log.Printf("🔥 Failed to initiate transfer for payout %s: %v", payout.ID, err)
		notifyPayoutOutcome(payout, false)
		return &payout, nil
	}

	updates := map[string]interface{}{"transfer_reference": transfer.Data.Reference}
	if transfer.Data.Status == "success" {
		updates["status"] = models.PayoutStatusCompleted
		payout.Status = models.PayoutStatusCompleted
	}
	if err := db.Model(&payout).Updates(updates).Error; err != nil {
		return nil, err
	}

	notifyPayoutOutcome(payout, true)
	return &payout, nil
}

func RejectPayout(db *gorm.DB, payoutID uuid.UUID, adminNotes string) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := db.Preload("Organizer").First(&payout, "id = ?", payoutID).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	res := db.Model(&models.PayoutRequest{}).
		Where("id = ? AND status = ?", payout.ID, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PayoutStatusCancelled,
			"admin_notes":  adminNotes,
			"processed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPayoutNotPending
	}
	payout.Status = models.PayoutStatusCancelled
	payout.ProcessedAt = &now

	organizer := payout.Organizer
	go notifications.SendEmail(
		organizer.FullName,
		organizer.Email,
		"Update on Your Withdrawal Request",
		fmt.Sprintf("<h1>Withdrawal Update</h1><p>Hello %s,</p><p>Your withdrawal request of ₦%.2f was rejected.</p><p><b>Admin Notes:</b> %s</p>",
			organizer.FullName, float64(payout.Amount)/100, adminNotes),
	)

	return &payout, nil
}

// ReconcileTransferEvent settles a processing payout when the gateway reports
// the final state of its transfer.
func ReconcileTransferEvent(db *gorm.DB, transferReference string, succeeded bool) error {
	status := models.PayoutStatusFailed
	if succeeded {
		status = models.PayoutStatusCompleted
	}

	res := db.Model(&models.PayoutRequest{}).
		Where("transfer_reference = ? AND status = ?", transferReference, models.PayoutStatusProcessing).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Transfer event for %s matched no processing payout, discarding", transferReference)
	}
	return nil
}

func notifyPayoutOutcome(payout models.PayoutRequest, transferStarted bool) {
	organizer := payout.Organizer
	amount := float64(payout.Amount) / 100

	if transferStarted {
		go notifications.SendEmail(
			organizer.FullName,
			organizer.Email,
			"Your Withdrawal Is on Its Way",
			fmt.Sprintf("<h1>Withdrawal Approved</h1><p>Hello %s,</p><p>Your withdrawal of ₦%.2f has been approved and the bank transfer has been initiated.</p>",
				organizer.FullName, amount),
		)
		return
	}

	go notifications.SendEmail(
		organizer.FullName,
		organizer.Email,
		"Your Withdrawal Is Being Processed",
		fmt.Sprintf("<h1>Withdrawal Update</h1><p>Hello %s,</p><p>Your withdrawal of ₦%.2f has been approved and is being processed. We will notify you once the transfer completes.</p>",
			organizer.FullName, amount),
	)
}
