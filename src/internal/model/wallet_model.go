package model

import "time"

// TopUpRequest is the verified payment event delivered by the external
// payment collector. PaymentRef deduplicates replays.
type TopUpRequest struct {
	ActorClass string `json:"-" validate:"required,oneof=OWNER VENDOR ADMIN"`
	ActorID    string `json:"-" validate:"required"`
	Amount     int64  `json:"amount" validate:"gt=0"`
	PaymentRef string `json:"paymentRef" validate:"required"`
}

type StatementRequest struct {
	ActorClass string `json:"-" validate:"required,oneof=OWNER VENDOR ADMIN"`
	ActorID    string `json:"-" validate:"required"`
	Limit      int    `json:"limit" validate:"gte=0,lte=200"`
}

type LedgerEntryResponse struct {
	EntryType     string    `json:"entryType"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	OrderID       string    `json:"orderId,omitempty"`
	ReferenceType string    `json:"referenceType,omitempty"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type StatementResponse struct {
	ActorID string                `json:"actorId"`
	Balance int64                 `json:"balance"`
	Entries []LedgerEntryResponse `json:"entries"`
}

type TopUpResponse struct {
	ActorID   string `json:"actorId"`
	Balance   int64  `json:"balance"`
	Duplicate bool   `json:"duplicate"`
}
