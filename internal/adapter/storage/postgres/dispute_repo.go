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

// DisputeRepo implements ports.DisputeRepository.
type DisputeRepo struct {
	pool Pool
}

// NewDisputeRepo creates a new DisputeRepo.
func NewDisputeRepo(pool Pool) *DisputeRepo {
	return &DisputeRepo{pool: pool}
}

const disputeColumns = `id, trade_id, raised_by, reason, status, resolution, resolved_by, created_at, updated_at`

// Create inserts a new dispute.
func (r *DisputeRepo) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.TradeID, d.RaisedBy, d.Reason, d.Status, d.Resolution, d.ResolvedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dispute: %w", err)
	}
	return nil
}

// GetByID fetches a dispute by UUID.
func (r *DisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`

	return r.scanDispute(r.pool.QueryRow(ctx, query, id))
}

// GetLatestByTrade returns the most recent dispute for the trade, which is
// the authoritative one.
func (r *DisputeRepo) GetLatestByTrade(ctx context.Context, tradeID uuid.UUID) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes
		WHERE trade_id = $1 ORDER BY created_at DESC LIMIT 1`

	return r.scanDispute(r.pool.QueryRow(ctx, query, tradeID))
}

// Resolve records the resolution of an open dispute.
func (r *DisputeRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string, resolvedBy uuid.UUID) error {
	query := `UPDATE disputes SET status = $1, resolution = $2, resolved_by = $3, updated_at = $4
		WHERE id = $5 AND status = $6`

	tag, err := r.pool.Exec(ctx, query, status, resolution, resolvedBy, time.Now(), id, domain.DisputeStatusOpen)
	if err != nil {
		return fmt.Errorf("resolve dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("open dispute not found: %s", id)
	}
	return nil
}

// scanDispute is a helper to scan a single row into a Dispute.
func (r *DisputeRepo) scanDispute(row pgx.Row) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	err := row.Scan(&d.ID, &d.TradeID, &d.RaisedBy, &d.Reason, &d.Status, &d.Resolution, &d.ResolvedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan dispute: %w", err)
	}
	return d, nil
}
