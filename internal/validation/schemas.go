package validation

import (
	"regexp"

	"github.com/shopspring/decimal"

	"hardware_shop_backend/internal/models"
)

var phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]*$`)

func codeField() *Field {
	return String("code").
		Min(1, "Code is required").
		Max(50, "Code must be less than 50 characters")
}

func nameField() *Field {
	return String("name").
		Min(2, "Name must be at least 2 characters").
		Max(100, "Name must be less than 100 characters")
}

func phoneField() *Field {
	return String("phone").Optional().
		Regex(phonePattern, "Invalid phone number").
		Max(50, "Phone must be less than 50 characters")
}

func emailField(message string) *Field {
	return String("email").Email(message).Max(255, "Email must be less than 255 characters")
}

func cityField() *Field {
	return String("city").Optional().Max(100, "City must be less than 100 characters")
}

func openingBalance() *Field {
	return Number("opening_balance").Default(decimal.Zero).ParseNumber().
		NonNegative("Opening balance cannot be negative")
}

func openingBalanceType() *Field {
	return Enum("opening_balance_type", models.BalanceTypes...).Optional()
}

func balanceType(v Values) *models.BalanceType {
	s := v.OptString("opening_balance_type")
	if s == nil {
		return nil
	}
	bt := models.BalanceType(*s)
	return &bt
}

// Login validates sign-in credentials.
var Login = NewSchema("login", func(v Values) models.Credentials {
	return models.Credentials{Email: v.String("email"), Password: v.String("password")}
},
	String("email").Email("Invalid email address").Min(1, "Email is required"),
	String("password").Min(6, "Password must be at least 6 characters").Min(1, "Password is required"),
)

// Registration validates a new back-office user.
var Registration = NewSchema("registration", func(v Values) models.Registration {
	return models.Registration{
		Email:      v.String("email"),
		Password:   v.String("password"),
		FullName:   v.OptString("full_name"),
		Role:       v.String("role"),
		EmployeeID: v.OptString("employee_id"),
	}
},
	emailField("Invalid email address"),
	String("password").Min(8, "Password must be at least 8 characters"),
	String("full_name").Optional().Max(100, "Full name must be less than 100 characters"),
	Enum("role", models.RoleAdmin, models.RoleManager, models.RoleStaff).Default(models.RoleStaff),
	String("employee_id").Optional().UUID("Invalid employee ID"),
)

// Category validates category create and update payloads.
var Category = NewSchema("category", func(v Values) models.Category {
	return models.Category{Name: v.String("name"), Description: v.OptString("description")}
},
	nameField(),
	String("description").Optional(),
)

// Store validates store create and update payloads.
var Store = NewSchema("store", func(v Values) models.Store {
	return models.Store{
		Code:    v.String("code"),
		Name:    v.String("name"),
		Address: v.OptString("address"),
		Phone:   v.OptString("phone"),
		Email:   v.OptString("email"),
	}
},
	codeField(),
	nameField(),
	String("address").Optional(),
	String("phone").Optional().Max(50, "Phone must be less than 50 characters"),
	emailField("Invalid email").Optional(),
)

// Item validates item create and update payloads with a zero reorder level and negative
// stock disallowed by default.
var Item = ItemSchema(decimal.Zero, false)

// ItemSchema builds the item schema with the shop's defaults for reorder_level and
// allow_negative_stock.
func ItemSchema(reorderLevel decimal.Decimal, allowNegativeStock bool) *Schema[models.Item] {
	return NewSchema("item", func(v Values) models.Item {
		return models.Item{
			Code:               v.String("code"),
			Barcode:            v.OptString("barcode"),
			Name:               v.String("name"),
			Description:        v.OptString("description"),
			CategoryID:         v.String("category_id"),
			Unit:               v.String("unit"),
			ReorderLevel:       v.Decimal("reorder_level"),
			AllowNegativeStock: v.Bool("allow_negative_stock"),
		}
	},
		codeField(),
		String("barcode").Optional().Max(100, "Barcode must be less than 100 characters"),
		nameField(),
		String("description").Optional(),
		String("category_id").UUID("Invalid category ID"),
		String("unit").Min(1, "Unit is required").Max(20, "Unit must be less than 20 characters"),
		Number("reorder_level").Default(reorderLevel).ParseNumber().NonNegative("Reorder level cannot be negative"),
		Bool("allow_negative_stock").Default(allowNegativeStock),
	)
}

// Customer validates customer create and update payloads.
var Customer = NewSchema("customer", func(v Values) models.Customer {
	return models.Customer{
		Code:               v.String("code"),
		Name:               v.String("name"),
		Phone:              v.OptString("phone"),
		Email:              v.OptString("email"),
		Address:            v.OptString("address"),
		City:               v.OptString("city"),
		CreditLimit:        v.Decimal("credit_limit"),
		CustomerType:       models.CustomerType(v.String("customer_type")),
		OpeningBalance:     v.Decimal("opening_balance"),
		OpeningBalanceType: balanceType(v),
	}
},
	codeField(),
	nameField(),
	phoneField(),
	emailField("Invalid email address").Optional(),
	String("address").Optional(),
	cityField(),
	Number("credit_limit").Default(decimal.Zero).ParseNumber().NonNegative("Credit limit cannot be negative"),
	Enum("customer_type", models.CustomerTypes...).Default(string(models.CustomerRetail)),
	openingBalance(),
	openingBalanceType(),
)

// Supplier validates supplier create and update payloads.
var Supplier = NewSchema("supplier", func(v Values) models.Supplier {
	return models.Supplier{
		Code:               v.String("code"),
		Name:               v.String("name"),
		ContactPerson:      v.OptString("contact_person"),
		Phone:              v.OptString("phone"),
		Email:              v.OptString("email"),
		Address:            v.OptString("address"),
		City:               v.OptString("city"),
		PaymentTerms:       v.OptInt("payment_terms"),
		OpeningBalance:     v.Decimal("opening_balance"),
		OpeningBalanceType: balanceType(v),
	}
},
	codeField(),
	nameField(),
	String("contact_person").Optional().Max(100, "Contact person must be less than 100 characters"),
	phoneField(),
	emailField("Invalid email address").Optional(),
	String("address").Optional(),
	cityField(),
	Number("payment_terms").Optional().ParseNumber().
		Positive("Payment terms must be positive").
		Int("Payment terms must be a whole number of days").
		MaxValue(365, "Payment terms cannot exceed 365 days"),
	openingBalance(),
	openingBalanceType(),
)

// Employee validates employee create and update payloads.
var Employee = NewSchema("employee", func(v Values) models.Employee {
	return models.Employee{
		Name:  v.String("name"),
		Email: v.String("email"),
		Phone: v.OptString("phone"),
		Role:  v.String("role"),
	}
},
	nameField(),
	emailField("Invalid email address"),
	String("phone").Optional().Max(50, "Phone must be less than 50 characters"),
	String("role").Min(1, "Role is required").Max(50, "Role must be less than 50 characters"),
)

func salesLineItemFields() []*Field {
	return []*Field{
		String("item_id").UUID("Invalid item ID"),
		Number("quantity").Positive("Quantity must be greater than 0"),
		Number("unit_price").Positive("Unit price must be greater than 0"),
		Number("discount").Optional().NonNegative("Discount cannot be negative"),
	}
}

func buildSalesLineItem(v Values) models.SalesLineItem {
	return models.SalesLineItem{
		ItemID:    v.String("item_id"),
		Quantity:  v.Decimal("quantity"),
		UnitPrice: v.Decimal("unit_price"),
		Discount:  v.OptDecimal("discount"),
	}
}

// SalesLineItem validates a single invoice line.
var SalesLineItem = NewSchema("sales_line_item", buildSalesLineItem, salesLineItemFields()...)

func salesInvoice(schemaName string) *Schema[models.SalesInvoice] {
	return NewSchema(schemaName, func(v Values) models.SalesInvoice {
		lines := v.List("items")
		items := make([]models.SalesLineItem, len(lines))
		for i, l := range lines {
			items[i] = buildSalesLineItem(l)
		}
		return models.SalesInvoice{
			CustomerID:     v.String("customer_id"),
			StoreID:        v.String("store_id"),
			InvoiceDate:    v.OptTime("invoice_date"),
			Items:          items,
			TaxType:        models.TaxType(v.String("tax_type")),
			DiscountAmount: v.OptDecimal("discount_amount"),
			Remarks:        v.OptString("remarks"),
		}
	},
		String("customer_id").UUID("Invalid customer ID"),
		String("store_id").UUID("Invalid store ID"),
		Date("invoice_date").Optional(),
		Array("items", salesLineItemFields()...).MinItems(1, "At least one item is required"),
		Enum("tax_type", models.TaxTypes...).Default(string(models.TaxExclusive)),
		Number("discount_amount").Optional().NonNegative("Discount cannot be negative"),
		String("remarks").Optional(),
	)
}

// SalesRetail and SalesWholesale validate invoice requests of the two sales channels.
var (
	SalesRetail    = salesInvoice("sales_retail")
	SalesWholesale = salesInvoice("sales_wholesale")
)

// Payment validates a payment header.
var Payment = NewSchema("payment", func(v Values) models.Payment {
	return models.Payment{
		PaymentDate:   v.Time("payment_date"),
		PaymentMethod: models.PaymentMethod(v.String("payment_method")),
		Amount:        v.Decimal("amount"),
		Remarks:       v.OptString("remarks"),
	}
},
	Date("payment_date"),
	Enum("payment_method", models.PaymentMethods...),
	Number("amount").Positive("Amount must be greater than 0"),
	String("remarks").Optional(),
)

// PaymentAllocation validates the allocation of a payment to an invoice.
var PaymentAllocation = NewSchema("payment_allocation", func(v Values) models.PaymentAllocation {
	return models.PaymentAllocation{
		InvoiceID:        v.String("invoice_id"),
		AllocationAmount: v.Decimal("allocation_amount"),
	}
},
	String("invoice_id").UUID("Invalid invoice ID"),
	Number("allocation_amount").Positive("Allocation amount must be greater than 0"),
)

func stockAdjustmentItemFields() []*Field {
	return []*Field{
		String("item_id").UUID("Invalid item ID"),
		Number("adjustment_qty").NonZero("Adjustment quantity cannot be zero"),
		String("adjustment_reason").Optional(),
	}
}

func buildStockAdjustmentItem(v Values) models.StockAdjustmentItem {
	return models.StockAdjustmentItem{
		ItemID:           v.String("item_id"),
		AdjustmentQty:    v.Decimal("adjustment_qty"),
		AdjustmentReason: v.OptString("adjustment_reason"),
	}
}

// StockAdjustmentItem validates a single stock adjustment line.
var StockAdjustmentItem = NewSchema("stock_adjustment_item", buildStockAdjustmentItem, stockAdjustmentItemFields()...)

// StockAdjustment validates a stock adjustment document.
var StockAdjustment = NewSchema("stock_adjustment", func(v Values) models.StockAdjustment {
	lines := v.List("items")
	items := make([]models.StockAdjustmentItem, len(lines))
	for i, l := range lines {
		items[i] = buildStockAdjustmentItem(l)
	}
	return models.StockAdjustment{
		AdjustmentDate: v.Time("adjustment_date"),
		StoreID:        v.String("store_id"),
		Items:          items,
		Description:    v.OptString("description"),
		Reason:         v.OptString("reason"),
	}
},
	Date("adjustment_date"),
	String("store_id").UUID("Invalid store ID"),
	Array("items", stockAdjustmentItemFields()...).MinItems(1, "At least one item is required"),
	String("description").Optional(),
	String("reason").Optional(),
)

func init() {
	Register(Login)
	Register(Registration)
	Register(Category)
	Register(Store)
	Register(Item)
	Register(Customer)
	Register(Supplier)
	Register(Employee)
	Register(SalesLineItem)
	Register(SalesRetail)
	Register(SalesWholesale)
	Register(Payment)
	Register(PaymentAllocation)
	Register(StockAdjustmentItem)
	Register(StockAdjustment)
}
