package repository

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrActiveAssignment    = errors.New("order already has an active assignment")
	ErrDuplicatePaymentRef = errors.New("payment reference already credited")
	ErrNonPositiveAmount   = errors.New("ledger amount must be positive")
)
