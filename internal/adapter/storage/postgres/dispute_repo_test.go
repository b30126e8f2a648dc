package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredDispute(tradeID uuid.UUID) *domain.Dispute {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Dispute{
		ID:        uuid.New(),
		TradeID:   tradeID,
		RaisedBy:  uuid.New(),
		Reason:    "seller unreachable after fiat payment",
		Status:    domain.DisputeStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func disputeCols() []string {
	return []string{"id", "trade_id", "raised_by", "reason", "status", "resolution", "resolved_by", "created_at", "updated_at"}
}

func TestDisputeRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	d := newStoredDispute(uuid.New())

	mock.ExpectExec("INSERT INTO disputes").
		WithArgs(d.ID, d.TradeID, d.RaisedBy, d.Reason, d.Status, d.Resolution, d.ResolvedBy, d.CreatedAt, d.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_GetLatestByTrade(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	tradeID := uuid.New()
	d := newStoredDispute(tradeID)

	rows := pgxmock.NewRows(disputeCols()).AddRow(
		d.ID, d.TradeID, d.RaisedBy, d.Reason, d.Status, d.Resolution, d.ResolvedBy, d.CreatedAt, d.UpdatedAt,
	)

	mock.ExpectQuery("SELECT .+ FROM disputes").
		WithArgs(tradeID).
		WillReturnRows(rows)

	got, err := repo.GetLatestByTrade(context.Background(), tradeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Reason, got.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM disputes WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(disputeCols()))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()
	admin := uuid.New()

	mock.ExpectExec("UPDATE disputes SET status").
		WithArgs(domain.DisputeStatusResolved, "refunded buyer", admin, pgxmock.AnyArg(), id, domain.DisputeStatusOpen).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Resolve(context.Background(), id, domain.DisputeStatusResolved, "refunded buyer", admin)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_Resolve_AlreadyClosed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE disputes SET status").
		WithArgs(domain.DisputeStatusRejected, "no evidence", pgxmock.AnyArg(), pgxmock.AnyArg(), id, domain.DisputeStatusOpen).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Resolve(context.Background(), id, domain.DisputeStatusRejected, "no evidence", uuid.New())
	assert.ErrorContains(t, err, "open dispute not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
