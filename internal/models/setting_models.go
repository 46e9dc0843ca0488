package models

import "github.com/shopspring/decimal"

// ShopSettings are the business settings clients need to render and default values.
type ShopSettings struct {
	Currency           string          `json:"currency"`
	Timezone           string          `json:"timezone"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	DefaultTaxRate     decimal.Decimal `json:"default_tax_rate"`
}
