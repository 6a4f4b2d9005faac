package services

import (
	"github.com/chinedu-ok/eventpass/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailableBalance is what an organizer can still withdraw: their share of
// every completed payment across their events, minus every payout that is
// pending, processing, or already completed.
func AvailableBalance(db *gorm.DB, organizerID uuid.UUID) (int64, error) {
	var earned int64
	err := db.Model(&models.Payment{}).
		Joins("JOIN events ON events.id = payments.event_id").
		Where("events.organizer_id = ? AND payments.status = ?", organizerID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(payments.organizer_amount), 0)").
		Scan(&earned).Error
	if err != nil {
		return 0, err
	}

	var reserved int64
	err = db.Model(&models.PayoutRequest{}).
		Where("organizer_id = ? AND status IN ?", organizerID, []string{
			models.PayoutStatusPending,
			models.PayoutStatusProcessing,
			models.PayoutStatusCompleted,
		}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}

	return earned - reserved, nil
}
