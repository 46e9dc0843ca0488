package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hardware_shop_backend/internal/models"
)

func validCustomer() map[string]any {
	return map[string]any{
		"code":          "CUS001",
		"name":          "Perera Hardware",
		"phone":         "+94 (11) 234-5678",
		"email":         "orders@perera.lk",
		"credit_limit":  25000.5,
		"customer_type": "wholesale",
	}
}

func TestValidateCustomerSuccess(t *testing.T) {
	c, verr := Validate(Customer, validCustomer())
	require.Nil(t, verr)

	assert.Equal(t, "CUS001", c.Code)
	assert.Equal(t, "Perera Hardware", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "orders@perera.lk", *c.Email)
	assert.True(t, c.CreditLimit.Equal(decimal.RequireFromString("25000.5")))
	assert.Equal(t, models.CustomerWholesale, c.CustomerType)
	assert.True(t, c.OpeningBalance.IsZero())
	assert.Nil(t, c.OpeningBalanceType)
	assert.Nil(t, c.Address)
}

func TestValidateAppliesDefaults(t *testing.T) {
	c, verr := Validate(Customer, map[string]any{"code": "C1", "name": "Walk-in"})
	require.Nil(t, verr)
	assert.Equal(t, models.CustomerRetail, c.CustomerType)
	assert.True(t, c.CreditLimit.IsZero())

	it, verr := Validate(Item, map[string]any{
		"code":        "NAIL-2IN",
		"name":        "Nail 2in",
		"category_id": "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10",
		"unit":        "box",
	})
	require.Nil(t, verr)
	assert.False(t, it.AllowNegativeStock)
	assert.True(t, it.ReorderLevel.IsZero())
}

func TestValidateTrimsStrings(t *testing.T) {
	in := validCustomer()
	in["code"] = "  CUS002  "
	in["city"] = "   "
	c, verr := Validate(Customer, in)
	require.Nil(t, verr)
	assert.Equal(t, "CUS002", c.Code)
	assert.Nil(t, c.City)
}

func TestMissingRequiredFieldsAreReported(t *testing.T) {
	tests := []struct {
		schema   string
		required []string
	}{
		{"category", []string{"name"}},
		{"store", []string{"code", "name"}},
		{"item", []string{"code", "name", "category_id", "unit"}},
		{"customer", []string{"code", "name"}},
		{"supplier", []string{"code", "name"}},
		{"employee", []string{"name", "email", "role"}},
		{"login", []string{"email", "password"}},
		{"sales_line_item", []string{"item_id", "quantity", "unit_price"}},
		{"sales_retail", []string{"customer_id", "store_id", "items"}},
		{"payment", []string{"payment_date", "payment_method", "amount"}},
		{"payment_allocation", []string{"invoice_id", "allocation_amount"}},
		{"stock_adjustment_item", []string{"item_id", "adjustment_qty"}},
		{"stock_adjustment", []string{"adjustment_date", "store_id", "items"}},
	}
	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			v, verr, err := ValidateByName(tt.schema, map[string]any{})
			require.NoError(t, err)
			require.NotNil(t, verr)
			assert.Nil(t, v)

			fields := FormatErrors(verr)
			for _, f := range tt.required {
				assert.Contains(t, fields, f)
				assert.Equal(t, []string{MsgRequired}, fields[f])
			}
		})
	}
}

func TestOptionalEmailFields(t *testing.T) {
	tests := []struct {
		schema string
		base   map[string]any
	}{
		{"customer", map[string]any{"code": "C1", "name": "Customer"}},
		{"supplier", map[string]any{"code": "S1", "name": "Supplier"}},
		{"store", map[string]any{"code": "ST1", "name": "Main store"}},
	}
	for _, tt := range tests {
		t.Run(tt.schema+"/empty passes", func(t *testing.T) {
			in := copyMap(tt.base)
			in["email"] = ""
			_, verr, err := ValidateByName(tt.schema, in)
			require.NoError(t, err)
			assert.Nil(t, verr)
		})
		t.Run(tt.schema+"/missing at sign fails", func(t *testing.T) {
			in := copyMap(tt.base)
			in["email"] = "not-an-address"
			_, verr, err := ValidateByName(tt.schema, in)
			require.NoError(t, err)
			require.NotNil(t, verr)
			fields := verr.Fields()
			require.Len(t, fields["email"], 1)
			assert.Contains(t, fields["email"][0], "Invalid email")
		})
	}
}

func TestParseNumberFields(t *testing.T) {
	in := validCustomer()
	in["credit_limit"] = "1500.75"
	c, verr := Validate(Customer, in)
	require.Nil(t, verr)
	assert.Equal(t, "1500.75", c.CreditLimit.String())

	in["credit_limit"] = "lots"
	_, verr = Validate(Customer, in)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"Expected number, received string"}, verr.Fields()["credit_limit"])

	in["credit_limit"] = -1
	_, verr = Validate(Customer, in)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"Credit limit cannot be negative"}, verr.Fields()["credit_limit"])
}

func TestNumberStringsRejectedWithoutParseNumber(t *testing.T) {
	_, verr := Validate(SalesLineItem, map[string]any{
		"item_id":    "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10",
		"quantity":   "3",
		"unit_price": json.Number("120.50"),
	})
	require.NotNil(t, verr)
	assert.Equal(t, []string{"quantity"}, verr.Paths())
}

func TestEnumRejectsUnknownValue(t *testing.T) {
	in := validCustomer()
	in["customer_type"] = "vip"
	_, verr := Validate(Customer, in)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"customer_type"}, verr.Paths())
	assert.Contains(t, verr.Fields()["customer_type"][0], "'retail' | 'wholesale' | 'distribution'")
}

func TestWrongTypesNeverPanic(t *testing.T) {
	in := map[string]any{
		"code":          12,
		"name":          []any{"a"},
		"phone":         map[string]any{"x": 1},
		"credit_limit":  true,
		"customer_type": 3.5,
		"unknown_field": "ignored",
	}
	require.NotPanics(t, func() {
		_, verr := Validate(Customer, in)
		require.NotNil(t, verr)
		assert.Equal(t, []string{"code", "name", "phone", "credit_limit", "customer_type"}, verr.Paths())
	})
}

func TestUnknownFieldsAreIgnored(t *testing.T) {
	in := validCustomer()
	in["is_admin"] = true
	_, verr := Validate(Customer, in)
	assert.Nil(t, verr)
}

func TestFormatErrorsPreservesOrder(t *testing.T) {
	_, verr := Validate(Login, map[string]any{"email": "", "password": ""})
	require.NotNil(t, verr)

	fields := FormatErrors(verr)
	assert.Equal(t, []string{"Invalid email address", "Email is required"}, fields["email"])
	assert.Equal(t, []string{"Password must be at least 6 characters", "Password is required"}, fields["password"])
	assert.Equal(t, []string{"email", "password"}, verr.Paths())
}

func TestArrayElementsUseIndexedPaths(t *testing.T) {
	_, verr := Validate(SalesRetail, map[string]any{
		"customer_id": "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10",
		"store_id":    "a8f5f167-f44f-4964-a6c8-1f5e3f4d2b11",
		"items": []any{
			map[string]any{"item_id": "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10", "quantity": 2, "unit_price": 10},
			map[string]any{"item_id": "nope", "quantity": 0, "unit_price": 10},
			"garbage",
		},
	})
	require.NotNil(t, verr)
	fields := verr.Fields()
	assert.Equal(t, []string{"Invalid item ID"}, fields["items.1.item_id"])
	assert.Equal(t, []string{"Quantity must be greater than 0"}, fields["items.1.quantity"])
	assert.Equal(t, []string{"Expected object, received string"}, fields["items.2"])
}

func TestArrayMinItems(t *testing.T) {
	_, verr := Validate(StockAdjustment, map[string]any{
		"adjustment_date": "2025-01-31",
		"store_id":        "a8f5f167-f44f-4964-a6c8-1f5e3f4d2b11",
		"items":           []any{},
	})
	require.NotNil(t, verr)
	assert.Equal(t, []string{"At least one item is required"}, verr.Fields()["items"])
}

func TestStockAdjustmentSuccess(t *testing.T) {
	adj, verr := Validate(StockAdjustment, map[string]any{
		"adjustment_date": "2025-01-31T10:00:00Z",
		"store_id":        "a8f5f167-f44f-4964-a6c8-1f5e3f4d2b11",
		"items": []any{
			map[string]any{"item_id": "4c1b8f3e-6d0a-4f7e-9a55-0b2d6f1c9e10", "adjustment_qty": -4},
		},
	})
	require.Nil(t, verr)
	require.Len(t, adj.Items, 1)
	assert.Equal(t, "-4", adj.Items[0].AdjustmentQty.String())
	assert.Equal(t, 2025, adj.AdjustmentDate.Year())
}

func TestValidatePartial(t *testing.T) {
	c, present, verr := ValidatePartial(Customer, map[string]any{"name": "Renamed", "email": ""})
	require.Nil(t, verr)
	assert.Equal(t, []string{"name", "email"}, present)
	assert.Equal(t, "Renamed", c.Name)
	assert.Nil(t, c.Email)

	_, _, verr = ValidatePartial(Customer, map[string]any{"code": ""})
	require.NotNil(t, verr)
	assert.Equal(t, []string{"Code is required"}, verr.Fields()["code"])
}

func TestValidatePartialRestoresDefaultsForEmptyValues(t *testing.T) {
	c, present, verr := ValidatePartial(Customer, map[string]any{"customer_type": ""})
	require.Nil(t, verr)
	assert.Equal(t, []string{"customer_type"}, present)
	assert.Equal(t, models.CustomerRetail, c.CustomerType)
}

func TestValidatePartialRejectsNullRequiredFields(t *testing.T) {
	_, present, verr := ValidatePartial(Customer, map[string]any{"name": nil})
	require.NotNil(t, verr)
	assert.Empty(t, present)
	assert.Equal(t, []string{MsgRequired}, verr.Fields()["name"])

	_, _, verr = ValidatePartial(Employee, map[string]any{"email": nil, "phone": nil})
	require.NotNil(t, verr)
	assert.Equal(t, []string{"email"}, verr.Paths())

	// a null optional field clears it
	c, present, verr := ValidatePartial(Customer, map[string]any{"city": nil})
	require.Nil(t, verr)
	assert.Equal(t, []string{"city"}, present)
	assert.Nil(t, c.City)
}

func TestLengthLimitsMatchColumns(t *testing.T) {
	long := func(n int) string { return strings.Repeat("a", n) }
	tests := []struct {
		name   string
		schema string
		input  map[string]any
		path   string
	}{
		{"employee name", "employee", map[string]any{"name": long(101), "email": "a@shop.lk", "role": "Clerk"}, "name"},
		{"employee role", "employee", map[string]any{"name": "Nimal", "email": "a@shop.lk", "role": long(51)}, "role"},
		{"employee phone", "employee", map[string]any{"name": "Nimal", "email": "a@shop.lk", "role": "Clerk", "phone": long(51)}, "phone"},
		{"customer city", "customer", map[string]any{"code": "C1", "name": "Silva", "city": long(101)}, "city"},
		{"customer phone", "customer", map[string]any{"code": "C1", "name": "Silva", "phone": strings.Repeat("1", 51)}, "phone"},
		{"supplier city", "supplier", map[string]any{"code": "S1", "name": "Acme", "city": long(101)}, "city"},
		{"store phone", "store", map[string]any{"code": "ST1", "name": "Main", "phone": long(51)}, "phone"},
		{"store email", "store", map[string]any{"code": "ST1", "name": "Main", "email": long(250) + "@shop.lk"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr, err := ValidateByName(tt.schema, tt.input)
			require.NoError(t, err)
			require.NotNil(t, verr)
			assert.Contains(t, verr.Paths(), tt.path)
		})
	}

	_, verr := Validate(Employee, map[string]any{"name": long(100), "email": "a@shop.lk", "role": long(50)})
	assert.Nil(t, verr)
}

func TestPaymentTermsUpperBound(t *testing.T) {
	tests := []struct {
		terms any
		ok    bool
	}{
		{30, true},
		{"365", true},
		{366, false},
		{"1e30", false},
		{json.Number("1e30"), false},
	}
	for _, tt := range tests {
		s, verr := Validate(Supplier, map[string]any{"code": "S1", "name": "Acme", "payment_terms": tt.terms})
		if tt.ok {
			require.Nil(t, verr, "%v", tt.terms)
			require.NotNil(t, s.PaymentTerms)
			continue
		}
		require.NotNil(t, verr, "%v", tt.terms)
		assert.Contains(t, verr.Fields()["payment_terms"], "Payment terms cannot exceed 365 days")
	}
}

func TestItemSchemaDefaults(t *testing.T) {
	input := map[string]any{"code": "I1", "name": "Saw", "category_id": "00000000-0000-4000-8000-000000000001", "unit": "pcs"}

	item, verr := Validate(ItemSchema(decimal.NewFromInt(8), true), input)
	require.Nil(t, verr)
	assert.True(t, decimal.NewFromInt(8).Equal(item.ReorderLevel))
	assert.True(t, item.AllowNegativeStock)

	item, verr = Validate(Item, input)
	require.Nil(t, verr)
	assert.True(t, item.ReorderLevel.IsZero())
	assert.False(t, item.AllowNegativeStock)
}

func TestValidateByNameUnknownSchema(t *testing.T) {
	_, _, err := ValidateByName("purchase_order", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestSchemaNamesAreRegistered(t *testing.T) {
	names := SchemaNames()
	for _, n := range []string{"category", "store", "item", "customer", "supplier", "employee", "payment", "stock_adjustment"} {
		assert.Contains(t, names, n)
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
