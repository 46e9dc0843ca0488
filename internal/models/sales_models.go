package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxType defines how tax is applied to an invoice
type TaxType string

const (
	TaxExclusive TaxType = "exclusive"
	TaxInclusive TaxType = "inclusive"
	TaxNone      TaxType = "none"
)

// TaxTypes lists the accepted TaxType values in declaration order.
var TaxTypes = []string{string(TaxExclusive), string(TaxInclusive), string(TaxNone)}

// PaymentMethod defines how a payment was settled
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCredit       PaymentMethod = "credit"
)

// PaymentMethods lists the accepted PaymentMethod values in declaration order.
var PaymentMethods = []string{string(PaymentCash), string(PaymentCheque), string(PaymentBankTransfer), string(PaymentCredit)}

// SalesLineItem is one line of a retail or wholesale invoice.
type SalesLineItem struct {
	ItemID    string           `json:"item_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// SalesInvoice is the request shape shared by retail and wholesale invoices.
type SalesInvoice struct {
	CustomerID     string           `json:"customer_id"`
	StoreID        string           `json:"store_id"`
	InvoiceDate    *time.Time       `json:"invoice_date,omitempty"`
	Items          []SalesLineItem  `json:"items"`
	TaxType        TaxType          `json:"tax_type"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	Remarks        *string          `json:"remarks,omitempty"`
}

// Payment records money received from a customer or paid to a supplier.
type Payment struct {
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Remarks       *string         `json:"remarks,omitempty"`
}

// PaymentAllocation settles part of a payment against an invoice.
type PaymentAllocation struct {
	InvoiceID        string          `json:"invoice_id"`
	AllocationAmount decimal.Decimal `json:"allocation_amount"`
}
