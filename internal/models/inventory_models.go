package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a product classification
type Category struct {
	Base
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Store represents a physical branch holding stock
type Store struct {
	Base
	Code    string  `json:"code" db:"code"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address,omitempty" db:"address"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
	Email   *string `json:"email,omitempty" db:"email"`
}

// Item represents a product held in inventory. CategoryID must point at an active Category.
type Item struct {
	Base
	Code               string          `json:"code" db:"code"`
	Barcode            *string         `json:"barcode,omitempty" db:"barcode"`
	Name               string          `json:"name" db:"name"`
	Description        *string         `json:"description,omitempty" db:"description"`
	CategoryID         string          `json:"category_id" db:"category_id"`
	Unit               string          `json:"unit" db:"unit"`
	ReorderLevel       decimal.Decimal `json:"reorder_level" db:"reorder_level"`
	AllowNegativeStock bool            `json:"allow_negative_stock" db:"allow_negative_stock"`
}

// StockAdjustmentItem is one line of a stock adjustment. Only its shape is validated.
type StockAdjustmentItem struct {
	ItemID           string          `json:"item_id"`
	AdjustmentQty    decimal.Decimal `json:"adjustment_qty"`
	AdjustmentReason *string         `json:"adjustment_reason,omitempty"`
}

// StockAdjustment corrects on-hand quantities of a store.
type StockAdjustment struct {
	AdjustmentDate time.Time             `json:"adjustment_date"`
	StoreID        string                `json:"store_id"`
	Items          []StockAdjustmentItem `json:"items"`
	Description    *string               `json:"description,omitempty"`
	Reason         *string               `json:"reason,omitempty"`
}
