package models

import "github.com/shopspring/decimal"

// CustomerType defines the pricing channel of a customer
type CustomerType string

const (
	CustomerRetail       CustomerType = "retail"
	CustomerWholesale    CustomerType = "wholesale"
	CustomerDistribution CustomerType = "distribution"
)

// CustomerTypes lists the accepted CustomerType values in declaration order.
var CustomerTypes = []string{string(CustomerRetail), string(CustomerWholesale), string(CustomerDistribution)}

// Customer represents a buyer of the shop
type Customer struct {
	Base
	Code               string          `json:"code" db:"code"`
	Name               string          `json:"name" db:"name"`
	Phone              *string         `json:"phone,omitempty" db:"phone"`
	Email              *string         `json:"email,omitempty" db:"email"`
	Address            *string         `json:"address,omitempty" db:"address"`
	City               *string         `json:"city,omitempty" db:"city"`
	CreditLimit        decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	CustomerType       CustomerType    `json:"customer_type" db:"customer_type"`
	OpeningBalance     decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	OpeningBalanceType *BalanceType    `json:"opening_balance_type,omitempty" db:"opening_balance_type"`
}
