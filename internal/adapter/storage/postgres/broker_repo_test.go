package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredBroker() *domain.Broker {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Broker{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Name:        "mediator",
		Commission:  decimal.NewFromInt(2),
		IsVerified:  true,
		IsActive:    true,
		Specialties: []domain.TradeType{domain.TradeTypeFiat, domain.TradeTypeGoods},
		Rating:      4.5,
		RatingCount: 10,
		TradesTotal: 20,
		TradesDone:  15,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func brokerCols() []string {
	return []string{"id", "user_id", "name", "commission", "is_verified", "is_active", "specialties",
		"rating", "rating_count", "trades_total", "trades_done", "created_at", "updated_at"}
}

func brokerRow(b *domain.Broker) *pgxmock.Rows {
	specialties := make([]string, len(b.Specialties))
	for i, s := range b.Specialties {
		specialties[i] = string(s)
	}
	return pgxmock.NewRows(brokerCols()).AddRow(
		b.ID, b.UserID, b.Name, b.Commission, b.IsVerified, b.IsActive, specialties,
		b.Rating, b.RatingCount, b.TradesTotal, b.TradesDone, b.CreatedAt, b.UpdatedAt,
	)
}

func TestBrokerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBrokerRepo(mock)
	b := newStoredBroker()

	mock.ExpectExec("INSERT INTO brokers").
		WithArgs(b.ID, b.UserID, b.Name, b.Commission, b.IsVerified, b.IsActive, []string{"FIAT", "GOODS"},
			b.Rating, b.RatingCount, b.TradesTotal, b.TradesDone, b.CreatedAt, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrokerRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBrokerRepo(mock)
	b := newStoredBroker()

	mock.ExpectQuery("SELECT .+ FROM brokers WHERE id").
		WithArgs(b.ID).
		WillReturnRows(brokerRow(b))

	result, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, b.ID, result.ID)
	assert.Equal(t, []domain.TradeType{domain.TradeTypeFiat, domain.TradeTypeGoods}, result.Specialties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrokerRepo_GetByUserID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBrokerRepo(mock)
	userID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM brokers WHERE user_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(brokerCols()))

	result, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrokerRepo_SetVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBrokerRepo(mock)
	brokerID := uuid.New()

	mock.ExpectExec("UPDATE brokers SET is_verified").
		WithArgs(true, pgxmock.AnyArg(), brokerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetVerified(context.Background(), brokerID, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrokerRepo_IncrementCounters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBrokerRepo(mock)
	brokerID := uuid.New()

	mock.ExpectExec("UPDATE brokers SET trades_total").
		WithArgs(pgxmock.AnyArg(), brokerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE brokers SET trades_done").
		WithArgs(pgxmock.AnyArg(), brokerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.IncrementCounters(context.Background(), brokerID, false))
	require.NoError(t, repo.IncrementCounters(context.Background(), brokerID, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
