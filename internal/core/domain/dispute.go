package domain

import (
	"time"

	"github.com/google/uuid"
)

// DisputeStatus is the lifecycle state of one complaint.
type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
	DisputeStatusRejected DisputeStatus = "REJECTED"
)

// Dispute is one complaint against a trade. A trade may accumulate several;
// the most recent one is authoritative.
type Dispute struct {
	ID         uuid.UUID     `json:"id"`
	TradeID    uuid.UUID     `json:"trade_id"`
	RaisedBy   uuid.UUID     `json:"raised_by"`
	Reason     string        `json:"reason"`
	Status     DisputeStatus `json:"status"`
	Resolution string        `json:"resolution,omitempty"`
	ResolvedBy *uuid.UUID    `json:"resolved_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
