package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payoutRow(id, organizerID uuid.UUID, status, bankCode, accountNumber string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "organizer_id", "amount", "status", "bank_code", "account_number", "account_name"}).
		AddRow(id, organizerID, 500000, status, bankCode, accountNumber, "ADA OBI")
}

func organizerRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "email"}).
		AddRow(id, "Ada Obi", "ada@example.com")
}

func TestApprovePayout_MissingBankDetails(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	payoutID, organizerID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payout_requests"`)).
		WillReturnRows(payoutRow(payoutID, organizerID, models.PayoutStatusPending, "", ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(organizerRow(organizerID))

	_, err := ApprovePayout(gormDB, payoutID, "ok")
	assert.ErrorContains(t, err, "bank destination")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovePayout_AlreadyProcessed(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	payoutID, organizerID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payout_requests"`)).
		WillReturnRows(payoutRow(payoutID, organizerID, models.PayoutStatusCompleted, "058", "0123456789"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(organizerRow(organizerID))

	// The guarded update matches no row because the payout left pending.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := ApprovePayout(gormDB, payoutID, "ok")
	assert.ErrorIs(t, err, ErrPayoutNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectPayout_CancelsPendingRequest(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	payoutID, organizerID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payout_requests"`)).
		WillReturnRows(payoutRow(payoutID, organizerID, models.PayoutStatusPending, "058", "0123456789"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(organizerRow(organizerID))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payout, err := RejectPayout(gormDB, payoutID, "insufficient documentation")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCancelled, payout.Status)
	assert.NotNil(t, payout.ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectPayout_AlreadyProcessed(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	payoutID, organizerID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payout_requests"`)).
		WillReturnRows(payoutRow(payoutID, organizerID, models.PayoutStatusCancelled, "058", "0123456789"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(organizerRow(organizerID))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := RejectPayout(gormDB, payoutID, "duplicate")
	assert.ErrorIs(t, err, ErrPayoutNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileTransferEvent_SettlesProcessingPayout(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WithArgs(models.PayoutStatusCompleted, "payout-abc", models.PayoutStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ReconcileTransferEvent(gormDB, "payout-abc", true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileTransferEvent_FailureMarksPayoutFailed(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WithArgs(models.PayoutStatusFailed, "payout-abc", models.PayoutStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ReconcileTransferEvent(gormDB, "payout-abc", false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileTransferEvent_UnmatchedReferenceIsDiscarded(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payout_requests"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ReconcileTransferEvent(gormDB, "payout-ghost", true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
