package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

// One wallet + ledger table pair per actor class.
var walletTables = map[string]struct{ wallet, ledger string }{
	entity.ActorOwner:  {wallet: "owner_wallets", ledger: "owner_wallet_ledger"},
	entity.ActorVendor: {wallet: "vendor_wallets", ledger: "vendor_wallet_ledger"},
	entity.ActorAdmin:  {wallet: "admin_wallets", ledger: "admin_wallet_ledger"},
}

// LedgerRef annotates a posting; empty strings become NULL columns.
type LedgerRef struct {
	OrderID       string
	ReferenceType string
	ReferenceID   string
	Notes         string
}

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{DB: db}
}

// Credit posts amount to the actor's wallet inside the caller's transaction.
func (r *WalletRepository) Credit(ctx context.Context, tx *sqlx.Tx, actorClass, actorID string, amount int64, ref LedgerRef) (*entity.LedgerEntry, error) {
	return r.post(ctx, tx, actorClass, actorID, entity.LedgerCredit, amount, ref)
}

// Debit posts a withdrawal; ErrInsufficientBalance when the locked balance
// cannot cover it, with nothing written.
func (r *WalletRepository) Debit(ctx context.Context, tx *sqlx.Tx, actorClass, actorID string, amount int64, ref LedgerRef) (*entity.LedgerEntry, error) {
	return r.post(ctx, tx, actorClass, actorID, entity.LedgerDebit, amount, ref)
}

// post is the single mutation path: lock the wallet row, derive the new
// balance, write balance and ledger row together. The materialized balance
// and the latest ledger balance_after can never diverge.
func (r *WalletRepository) post(ctx context.Context, tx *sqlx.Tx, actorClass, actorID, entryType string, amount int64, ref LedgerRef) (*entity.LedgerEntry, error) {
	tables, ok := walletTables[actorClass]
	if !ok {
		return nil, fmt.Errorf("unknown actor class %q", actorClass)
	}
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	var balanceBefore int64
	err := tx.QueryRowxContext(ctx,
		`SELECT balance FROM `+tables.wallet+` WHERE actor_id = ? FOR UPDATE`,
		actorID,
	).Scan(&balanceBefore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var balanceAfter int64
	switch entryType {
	case entity.LedgerCredit:
		balanceAfter = balanceBefore + amount
	case entity.LedgerDebit:
		if balanceBefore < amount {
			return nil, ErrInsufficientBalance
		}
		balanceAfter = balanceBefore - amount
	default:
		return nil, fmt.Errorf("unknown ledger entry type %q", entryType)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE `+tables.wallet+` SET balance = ?, updated_at = NOW() WHERE actor_id = ?`,
		balanceAfter, actorID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO `+tables.ledger+` (
			actor_id, order_id, entry_type, amount,
			balance_before, balance_after,
			reference_type, reference_id, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		actorID, nullable(ref.OrderID), entryType, amount,
		balanceBefore, balanceAfter,
		nullable(ref.ReferenceType), nullable(ref.ReferenceID), nullable(ref.Notes),
	)
	var mysqlErr *mysqldrv.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		// topup_ref unique index: the same payment reference was credited
		// concurrently.
		return nil, ErrDuplicatePaymentRef
	}
	if err != nil {
		return nil, err
	}

	return &entity.LedgerEntry{
		ActorID:       actorID,
		OrderID:       nullable(ref.OrderID),
		EntryType:     entryType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		ReferenceType: nullable(ref.ReferenceType),
		ReferenceID:   nullable(ref.ReferenceID),
		Notes:         nullable(ref.Notes),
	}, nil
}

func (r *WalletRepository) Balance(ctx context.Context, actorClass, actorID string) (int64, error) {
	tables, ok := walletTables[actorClass]
	if !ok {
		return 0, fmt.Errorf("unknown actor class %q", actorClass)
	}
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = db.QueryRowxContext(ctx,
		`SELECT balance FROM `+tables.wallet+` WHERE actor_id = ?`, actorID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

// BalanceTx reads the balance inside the caller's transaction, used for the
// acceptance gate where the read must see the transaction's snapshot.
func (r *WalletRepository) BalanceTx(ctx context.Context, q sqlx.QueryerContext, actorClass, actorID string) (int64, error) {
	tables, ok := walletTables[actorClass]
	if !ok {
		return 0, fmt.Errorf("unknown actor class %q", actorClass)
	}

	var balance int64
	err := sqlx.GetContext(ctx, q, &balance,
		`SELECT balance FROM `+tables.wallet+` WHERE actor_id = ?`, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

// HasTopUp reports whether a payment reference was already credited; called
// inside the top-up transaction so replays become no-ops.
func (r *WalletRepository) HasTopUp(ctx context.Context, tx *sqlx.Tx, actorClass, paymentRef string) (bool, error) {
	tables, ok := walletTables[actorClass]
	if !ok {
		return false, fmt.Errorf("unknown actor class %q", actorClass)
	}

	var exists bool
	err := tx.QueryRowxContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM `+tables.ledger+`
			WHERE reference_type = ? AND reference_id = ?
		)`, entity.RefTopUp, paymentRef,
	).Scan(&exists)
	return exists, err
}

func (r *WalletRepository) Statement(ctx context.Context, actorClass, actorID string, limit int) ([]entity.LedgerEntry, error) {
	tables, ok := walletTables[actorClass]
	if !ok {
		return nil, fmt.Errorf("unknown actor class %q", actorClass)
	}
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var entries []entity.LedgerEntry
	err = sqlx.SelectContext(ctx, db, &entries, `
		SELECT id, actor_id, order_id, entry_type, amount,
		       balance_before, balance_after,
		       reference_type, reference_id, notes, created_at
		FROM `+tables.ledger+`
		WHERE actor_id = ?
		ORDER BY id DESC
		LIMIT ?`, actorID, limit,
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
