package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chinedu-ok/eventpass/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

var paymentColumns = []string{
	"id", "gateway_reference", "event_id", "buyer_id",
	"amount", "platform_fee", "organizer_amount", "currency",
	"status", "order_metadata", "created_at", "updated_at",
}

func paymentRow(id, eventID uuid.UUID, reference, status, metadata string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(paymentColumns).
		AddRow(id, reference, eventID, uuid.New(), 1200000, 120000, 1080000, "NGN", status, metadata, now, now)
}

func tierRow(id, eventID uuid.UUID, name string, price int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "event_id", "name", "price", "capacity", "sold", "created_at", "updated_at"}).
		AddRow(id, eventID, name, price, nil, 0, now, now)
}

func metadataJSON(t *testing.T, meta models.OrderMetadata) string {
	t.Helper()
	b, err := json.Marshal(meta)
	require.NoError(t, err)
	return string(b)
}

func expectTicketMint(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tickets"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
}

func TestFulfillPayment_UnknownReferenceIsDiscarded(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	err := FulfillPayment(gormDB, "evp_unknown", []byte(`{}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_AlreadyCompletedIsNoOp(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_done", models.PaymentStatusCompleted, "{}"))

	err := FulfillPayment(gormDB, "evp_done", []byte(`{}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_CompletedUnderLockIsNoOp(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()
	// The unlocked read still sees a pending payment, but a concurrent
	// delivery completes it before we take the row lock.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_race", models.PaymentStatusPending, "{}"))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_race", models.PaymentStatusCompleted, "{}"))
	mock.ExpectCommit()

	err := FulfillPayment(gormDB, "evp_race", []byte(`{}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_IssuesOneTicketPerUnit(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()
	vipID, regularID := uuid.New(), uuid.New()

	meta := metadataJSON(t, models.OrderMetadata{
		EventTitle: "Lagos Tech Fest",
		Lines: []models.OrderLine{
			{TicketTypeID: vipID, Quantity: 2, AttendeeName: "Ada", AttendeeEmail: "a@example.com"},
			{TicketTypeID: regularID, Quantity: 1, AttendeeName: "Ada", AttendeeEmail: "a@example.com"},
		},
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_ref_123", models.PaymentStatusPending, meta))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_ref_123", models.PaymentStatusPending, meta))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// VIP line: two units.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(tierRow(vipID, eventID, "VIP", 500000))
	expectTicketMint(mock)
	expectTicketMint(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Regular line: one unit.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(tierRow(regularID, eventID, "Regular", 200000))
	expectTicketMint(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	err := FulfillPayment(gormDB, "evp_ref_123", []byte(`{"event":"charge.success"}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_UnknownTierLineIsSkipped(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()
	ghostID, regularID := uuid.New(), uuid.New()

	meta := metadataJSON(t, models.OrderMetadata{
		EventTitle: "Lagos Tech Fest",
		Lines: []models.OrderLine{
			{TicketTypeID: ghostID, Quantity: 2, AttendeeName: "Ada", AttendeeEmail: "a@example.com"},
			{TicketTypeID: regularID, Quantity: 1, AttendeeName: "Ada", AttendeeEmail: "a@example.com"},
		},
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_partial", models.PaymentStatusPending, meta))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_partial", models.PaymentStatusPending, meta))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Ghost tier resolves to nothing and its line is skipped.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(tierRow(regularID, eventID, "Regular", 200000))
	expectTicketMint(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	err := FulfillPayment(gormDB, "evp_partial", []byte(`{}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_MalformedMetadataMarksPaymentFailed(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_bad", models.PaymentStatusPending, "{not json"))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_bad", models.PaymentStatusPending, "{not json"))
	mock.ExpectRollback()

	// The failure is recorded outside the aborted transaction.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := FulfillPayment(gormDB, "evp_bad", []byte(`{}`))
	assert.NoError(t, err, "fatal order errors are acknowledged, not retried")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillPayment_ZeroTicketsMarksPaymentFailed(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	paymentID, eventID := uuid.New(), uuid.New()
	ghostID := uuid.New()

	meta := metadataJSON(t, models.OrderMetadata{
		EventTitle: "Lagos Tech Fest",
		Lines: []models.OrderLine{
			{TicketTypeID: ghostID, Quantity: 1, AttendeeName: "Ada", AttendeeEmail: "a@example.com"},
		},
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_empty", models.PaymentStatusPending, meta))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(paymentRow(paymentID, eventID, "evp_empty", models.PaymentStatusPending, meta))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := FulfillPayment(gormDB, "evp_empty", []byte(`{}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseOrderMetadata(t *testing.T) {
	validLine := models.OrderLine{
		TicketTypeID:  uuid.New(),
		Quantity:      1,
		AttendeeName:  "Ada",
		AttendeeEmail: "a@example.com",
	}

	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"not json", "{oops", true},
		{"no lines", `{"event_title":"X","lines":[]}`, true},
		{"zero quantity", fmt.Sprintf(`{"lines":[{"ticket_type_id":%q,"quantity":0,"attendee_email":"a@example.com"}]}`, uuid.New()), true},
		{"missing email", fmt.Sprintf(`{"lines":[{"ticket_type_id":%q,"quantity":1}]}`, uuid.New()), true},
		{"valid", func() string {
			b, _ := json.Marshal(models.OrderMetadata{EventTitle: "X", Lines: []models.OrderLine{validLine}})
			return string(b)
		}(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta, err := ParseOrderMetadata(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, meta.Lines, 1)
			}
		})
	}
}
