package models

import "time"

// Base holds the columns every master record shares.
type Base struct {
	ID        string    `json:"id" db:"id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BalanceType defines how an opening balance is interpreted.
type BalanceType string

const (
	BalancePayable    BalanceType = "payable"
	BalanceReceivable BalanceType = "receivable"
	BalanceAdvance    BalanceType = "advance"
)

// BalanceTypes lists the accepted BalanceType values in declaration order.
var BalanceTypes = []string{string(BalancePayable), string(BalanceReceivable), string(BalanceAdvance)}
