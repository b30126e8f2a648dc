package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBrokerCommission is the upper bound on a broker's commission rate (%).
var MaxBrokerCommission = decimal.NewFromInt(10)

// Broker is a verified trade mediator profile.
type Broker struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Name        string          `json:"name"`
	Commission  decimal.Decimal `json:"commission"` // percent, 0-10
	IsVerified  bool            `json:"is_verified"`
	IsActive    bool            `json:"is_active"`
	Specialties []TradeType     `json:"specialties"`
	Rating      float64         `json:"rating"`
	RatingCount int64           `json:"rating_count"`
	TradesTotal int64           `json:"trades_total"`
	TradesDone  int64           `json:"trades_done"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Specializes reports whether the broker handles the given trade type.
func (b *Broker) Specializes(t TradeType) bool {
	for _, s := range b.Specialties {
		if s == t {
			return true
		}
	}
	return false
}

// ApplyRating folds a new 1-5 rating into the running average.
func (b *Broker) ApplyRating(stars int) {
	total := b.Rating*float64(b.RatingCount) + float64(stars)
	b.RatingCount++
	b.Rating = total / float64(b.RatingCount)
}
