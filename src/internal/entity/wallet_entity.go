package entity

import (
	"database/sql"
	"time"
)

// Actor classes, one wallet + ledger table pair each.
const (
	ActorOwner  = "OWNER"
	ActorVendor = "VENDOR"
	ActorAdmin  = "ADMIN"
)

// AdminActorID is the single platform wallet commissions accrue to.
const AdminActorID = "PLATFORM"

const (
	LedgerCredit = "CREDIT"
	LedgerDebit  = "DEBIT"
)

// Ledger reference types.
const (
	RefTripCompletion = "TRIP_COMPLETION"
	RefOrder          = "ORDER"
	RefTopUp          = "TOPUP"
)

// Wallet carries the materialized balance; it always equals balance_after of
// the actor's latest ledger row.
type Wallet struct {
	ActorID   string    `db:"actor_id"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LedgerEntry rows are append-only, never updated or deleted.
type LedgerEntry struct {
	ID            int64          `db:"id"`
	ActorID       string         `db:"actor_id"`
	OrderID       sql.NullString `db:"order_id"`
	EntryType     string         `db:"entry_type"`
	Amount        int64          `db:"amount"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	ReferenceType sql.NullString `db:"reference_type"`
	ReferenceID   sql.NullString `db:"reference_id"`
	Notes         sql.NullString `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
}
