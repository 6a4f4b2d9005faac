package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableBalance_SubtractsReservedPayouts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	organizerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(payments.organizer_amount), 0) FROM "payments"`)).
		WithArgs(organizerID, "completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1500000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "payout_requests"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(400000))

	balance, err := AvailableBalance(gormDB, organizerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100000), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailableBalance_NoActivityIsZero(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	organizerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(payments.organizer_amount), 0) FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "payout_requests"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	balance, err := AvailableBalance(gormDB, organizerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
