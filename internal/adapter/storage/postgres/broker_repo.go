package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BrokerRepo implements ports.BrokerRepository. Specialties are stored as
// a text array.
type BrokerRepo struct {
	pool Pool
}

// NewBrokerRepo creates a new BrokerRepo.
func NewBrokerRepo(pool Pool) *BrokerRepo {
	return &BrokerRepo{pool: pool}
}

const brokerColumns = `id, user_id, name, commission, is_verified, is_active, specialties,
	rating, rating_count, trades_total, trades_done, created_at, updated_at`

// Create inserts a new broker profile.
func (r *BrokerRepo) Create(ctx context.Context, b *domain.Broker) error {
	query := `INSERT INTO brokers (` + brokerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.UserID, b.Name, b.Commission, b.IsVerified, b.IsActive, specialtiesToText(b.Specialties),
		b.Rating, b.RatingCount, b.TradesTotal, b.TradesDone, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert broker: %w", err)
	}
	return nil
}

// GetByID fetches a broker by UUID.
func (r *BrokerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Broker, error) {
	query := `SELECT ` + brokerColumns + ` FROM brokers WHERE id = $1`

	return r.scanBroker(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID fetches the broker profile owned by a user.
func (r *BrokerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Broker, error) {
	query := `SELECT ` + brokerColumns + ` FROM brokers WHERE user_id = $1`

	return r.scanBroker(r.pool.QueryRow(ctx, query, userID))
}

// Update writes the broker's mutable fields.
func (r *BrokerRepo) Update(ctx context.Context, b *domain.Broker) error {
	query := `UPDATE brokers SET name = $2, commission = $3, is_verified = $4, is_active = $5,
		specialties = $6, rating = $7, rating_count = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		b.ID, b.Name, b.Commission, b.IsVerified, b.IsActive,
		specialtiesToText(b.Specialties), b.Rating, b.RatingCount, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update broker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("broker not found: %s", b.ID)
	}
	return nil
}

// SetVerified flips the broker's verification flag.
func (r *BrokerRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `UPDATE brokers SET is_verified = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, verified, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set broker verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("broker not found: %s", id)
	}
	return nil
}

// IncrementCounters bumps trades_total, and trades_done when completed.
func (r *BrokerRepo) IncrementCounters(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `UPDATE brokers SET trades_total = trades_total + 1, updated_at = $1 WHERE id = $2`
	if completed {
		query = `UPDATE brokers SET trades_done = trades_done + 1, updated_at = $1 WHERE id = $2`
	}

	tag, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("increment broker counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("broker not found: %s", id)
	}
	return nil
}

// scanBroker is a helper to scan a single row into a Broker.
func (r *BrokerRepo) scanBroker(row pgx.Row) (*domain.Broker, error) {
	b := &domain.Broker{}
	var specialties []string
	err := row.Scan(
		&b.ID, &b.UserID, &b.Name, &b.Commission, &b.IsVerified, &b.IsActive, &specialties,
		&b.Rating, &b.RatingCount, &b.TradesTotal, &b.TradesDone, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan broker: %w", err)
	}
	b.Specialties = make([]domain.TradeType, len(specialties))
	for i, s := range specialties {
		b.Specialties[i] = domain.TradeType(s)
	}
	return b, nil
}

func specialtiesToText(specialties []domain.TradeType) []string {
	out := make([]string, len(specialties))
	for i, s := range specialties {
		out[i] = string(s)
	}
	return out
}
