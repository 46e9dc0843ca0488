package models

import "github.com/shopspring/decimal"

// Supplier represents a vendor the shop purchases from
type Supplier struct {
	Base
	Code               string          `json:"code" db:"code"`
	Name               string          `json:"name" db:"name"`
	ContactPerson      *string         `json:"contact_person,omitempty" db:"contact_person"`
	Phone              *string         `json:"phone,omitempty" db:"phone"`
	Email              *string         `json:"email,omitempty" db:"email"`
	Address            *string         `json:"address,omitempty" db:"address"`
	City               *string         `json:"city,omitempty" db:"city"`
	PaymentTerms       *int            `json:"payment_terms,omitempty" db:"payment_terms"` // days
	OpeningBalance     decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	OpeningBalanceType *BalanceType    `json:"opening_balance_type,omitempty" db:"opening_balance_type"`
}
