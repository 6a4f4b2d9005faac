package utils

import (
	"crypto/rand"
	"errors"

	"github.com/chinedu-ok/eventpass/models"
	"gorm.io/gorm"
)

const confirmationCodeLength = 8

// Ambiguous characters (0/O, 1/I) are excluded so codes survive being read
// aloud or printed on a ticket.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const maxCodeAttempts = 5

func GenerateConfirmationCode() (string, error) {
	b := make([]byte, confirmationCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

// GenerateUniqueConfirmationCode retries on collision against the tickets
// table. The unique constraint on confirmation_code remains the backstop for
// codes minted concurrently.
func GenerateUniqueConfirmationCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateConfirmationCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Ticket{}).Where("confirmation_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique confirmation code")
}
