package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/chinedu-ok/eventpass/database"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/chinedu-ok/eventpass/payments"
	"github.com/chinedu-ok/eventpass/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errInsufficientBalance = errors.New("insufficient balance for this withdrawal")

func GetMyBalance(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	balance, err := services.AvailableBalance(database.DB, organizerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"available_balance": balance, "currency": "NGN"})
}

type WithdrawalRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	BankCode      string `json:"bank_code" validate:"required"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
}

// RequestWithdrawal rejects any amount exceeding the available balance before
// the bank-verification call is made.
func RequestWithdrawal(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	balance, err := services.AvailableBalance(database.DB, organizerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if req.Amount > balance {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errInsufficientBalance.Error()})
	}

	resolved, err := payments.ResolveBankAccount(req.AccountNumber, req.BankCode)
	if err != nil {
		log.Printf("Bank account resolution failed for organizer %s: %v", organizerID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not verify bank account details"})
	}

	var payout models.PayoutRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction so two concurrent withdrawal
		// requests cannot both pass the balance check.
		balance, err := services.AvailableBalance(tx, organizerID)
		if err != nil {
			return err
		}
		if req.Amount > balance {
			return errInsufficientBalance
		}

		payout = models.PayoutRequest{
			OrganizerID:   organizerID,
			Amount:        req.Amount,
			Status:        models.PayoutStatusPending,
			BankName:      req.BankName,
			BankCode:      req.BankCode,
			AccountNumber: req.AccountNumber,
			AccountName:   resolved.Data.AccountName,
			RequestedAt:   time.Now(),
		}
		return tx.Create(&payout).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create withdrawal request"})
	}

	return c.Status(fiber.StatusCreated).JSON(payout)
}

func ListMyWithdrawals(c *fiber.Ctx) error {
	organizerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var payouts []models.PayoutRequest
	if err := database.DB.Where("organizer_id = ?", organizerID).
		Order("requested_at desc").Find(&payouts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payouts)
}
