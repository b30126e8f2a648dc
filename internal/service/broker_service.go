package service

import (
	"context"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BrokerMediator implements ports.BrokerService.
type BrokerMediator struct {
	brokerRepo ports.BrokerRepository
	tradeRepo  ports.TradeRepository
	log        zerolog.Logger
}

// NewBrokerMediator creates the mediation module.
func NewBrokerMediator(brokerRepo ports.BrokerRepository, tradeRepo ports.TradeRepository, log zerolog.Logger) *BrokerMediator {
	return &BrokerMediator{brokerRepo: brokerRepo, tradeRepo: tradeRepo, log: log}
}

// Register creates an unverified broker profile.
func (s *BrokerMediator) Register(ctx context.Context, req ports.BrokerRegisterRequest) (*domain.Broker, error) {
	if req.Name == "" {
		return nil, apperror.Validation("broker name is required")
	}
	if req.Commission.IsNegative() || req.Commission.GreaterThan(domain.MaxBrokerCommission) {
		return nil, apperror.ErrInvalidCommission()
	}
	if len(req.Specialties) == 0 {
		return nil, apperror.Validation("at least one specialty is required")
	}

	existing, err := s.brokerRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup broker: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	broker := &domain.Broker{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Name:        req.Name,
		Commission:  req.Commission,
		IsActive:    true,
		Specialties: req.Specialties,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.brokerRepo.Create(ctx, broker); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create broker: %w", err))
	}
	s.log.Info().Str("broker_id", broker.ID.String()).Msg("broker registered")
	return broker, nil
}

// Verify marks the broker verified. The HTTP boundary gates this to admins.
func (s *BrokerMediator) Verify(ctx context.Context, brokerID uuid.UUID) error {
	broker, err := s.getBroker(ctx, brokerID)
	if err != nil {
		return err
	}
	if err := s.brokerRepo.SetVerified(ctx, broker.ID, true); err != nil {
		return apperror.InternalError(fmt.Errorf("verify broker: %w", err))
	}
	return nil
}

// ValidateForTrade enforces the eligibility invariant at assignment time:
// verified, active, specialized in the trade type, and not the seller or
// buyer of the trade being mediated.
func (s *BrokerMediator) ValidateForTrade(ctx context.Context, brokerID uuid.UUID, trade *domain.Trade) error {
	broker, err := s.getBroker(ctx, brokerID)
	if err != nil {
		return err
	}
	if !broker.IsVerified {
		return apperror.ErrBrokerNotEligible("broker is not verified")
	}
	if !broker.IsActive {
		return apperror.ErrBrokerNotEligible("broker is not active")
	}
	if !broker.Specializes(trade.Type) {
		return apperror.ErrBrokerNotEligible(fmt.Sprintf("broker does not handle %s trades", trade.Type))
	}
	if trade.IsCounterparty(broker.UserID) {
		return apperror.ErrBrokerIsCounterparty()
	}
	return nil
}

// AssignToTrade attaches a validated broker to the trade.
func (s *BrokerMediator) AssignToTrade(ctx context.Context, brokerID, tradeID uuid.UUID) error {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup trade: %w", err))
	}
	if trade == nil {
		return apperror.ErrNotFound("trade")
	}
	if trade.IsTerminal() {
		return apperror.ErrTradeTerminal()
	}
	if trade.BrokerLocked() {
		return apperror.ErrBrokerLocked()
	}
	if err := s.ValidateForTrade(ctx, brokerID, trade); err != nil {
		return err
	}

	broker, err := s.getBroker(ctx, brokerID)
	if err != nil {
		return err
	}

	trade.BrokerID = &broker.ID
	trade.BrokerEnabled = true
	trade.BrokerCommission = broker.Commission
	trade.BrokerSellerApproved = false
	trade.BrokerBuyerApproved = false
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("assign broker: %w", err))
	}
	if err := s.brokerRepo.IncrementCounters(ctx, broker.ID, false); err != nil {
		s.log.Warn().Err(err).Str("broker_id", broker.ID.String()).Msg("incrementing broker trade counter")
	}
	s.log.Info().
		Str("trade_id", tradeID.String()).
		Str("broker_id", brokerID.String()).
		Msg("broker assigned to trade")
	return nil
}

// ApproveParticipant records the broker's approval of one side. Only the
// assigned broker may approve; once both sides are approved the trade's
// broker fields freeze.
func (s *BrokerMediator) ApproveParticipant(ctx context.Context, brokerID, tradeID uuid.UUID, side ports.ApprovalSide) error {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup trade: %w", err))
	}
	if trade == nil {
		return apperror.ErrNotFound("trade")
	}
	if trade.BrokerID == nil || *trade.BrokerID != brokerID {
		return apperror.ErrUnauthorized()
	}

	switch side {
	case ports.SideSeller:
		trade.BrokerSellerApproved = true
	case ports.SideBuyer:
		trade.BrokerBuyerApproved = true
	default:
		return apperror.Validation(fmt.Sprintf("unknown approval side: %s", side))
	}
	trade.UpdatedAt = time.Now().UTC()
	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return apperror.InternalError(fmt.Errorf("record broker approval: %w", err))
	}
	return nil
}

// Rate folds a 1-5 rating into the broker's running average.
func (s *BrokerMediator) Rate(ctx context.Context, brokerID uuid.UUID, stars int) (*domain.Broker, error) {
	if stars < 1 || stars > 5 {
		return nil, apperror.ErrInvalidRating()
	}
	broker, err := s.getBroker(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	broker.ApplyRating(stars)
	broker.UpdatedAt = time.Now().UTC()
	if err := s.brokerRepo.Update(ctx, broker); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update broker rating: %w", err))
	}
	return broker, nil
}

func (s *BrokerMediator) getBroker(ctx context.Context, brokerID uuid.UUID) (*domain.Broker, error) {
	broker, err := s.brokerRepo.GetByID(ctx, brokerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup broker: %w", err))
	}
	if broker == nil {
		return nil, apperror.ErrNotFound("broker")
	}
	return broker, nil
}
