package repositories

import "hardware_shop_backend/internal/models"

// Table names.
const (
	TableCategories = "categories"
	TableStores     = "stores"
	TableItems      = "items"
	TableCustomers  = "customers"
	TableSuppliers  = "suppliers"
	TableEmployees  = "employees"
	TableUsers      = "users"
)

// Categories maps models.Category.
var Categories = &Table[models.Category]{
	Name:    TableCategories,
	Columns: []string{"name", "description"},
	Unique:  []UniqueField{{Column: "name", ReuseDeleted: true}},
	ToRow: func(c *models.Category) Row {
		return Row{"name": c.Name, "description": nullable(c.Description)}
	},
	FromRow: func(r Row) models.Category {
		return models.Category{Base: readBase(r), Name: r.String("name"), Description: r.OptString("description")}
	},
}

// Stores maps models.Store.
var Stores = &Table[models.Store]{
	Name:    TableStores,
	Columns: []string{"code", "name", "address", "phone", "email"},
	Unique: []UniqueField{
		{Column: "code", ReuseDeleted: true},
		{Column: "email", ReuseDeleted: true},
	},
	ToRow: func(s *models.Store) Row {
		return Row{
			"code":    s.Code,
			"name":    s.Name,
			"address": nullable(s.Address),
			"phone":   nullable(s.Phone),
			"email":   nullable(s.Email),
		}
	},
	FromRow: func(r Row) models.Store {
		return models.Store{
			Base:    readBase(r),
			Code:    r.String("code"),
			Name:    r.String("name"),
			Address: r.OptString("address"),
			Phone:   r.OptString("phone"),
			Email:   r.OptString("email"),
		}
	},
}

// Items maps models.Item. category_id references categories.
var Items = &Table[models.Item]{
	Name: TableItems,
	Columns: []string{
		"code", "barcode", "name", "description", "category_id", "unit", "reorder_level", "allow_negative_stock",
	},
	Unique:     []UniqueField{{Column: "code", ReuseDeleted: true}},
	References: []Reference{{Name: "items_category_id_fkey", Column: "category_id", Table: TableCategories}},
	ToRow: func(i *models.Item) Row {
		return Row{
			"code":                 i.Code,
			"barcode":              nullable(i.Barcode),
			"name":                 i.Name,
			"description":          nullable(i.Description),
			"category_id":          i.CategoryID,
			"unit":                 i.Unit,
			"reorder_level":        i.ReorderLevel,
			"allow_negative_stock": i.AllowNegativeStock,
		}
	},
	FromRow: func(r Row) models.Item {
		return models.Item{
			Base:               readBase(r),
			Code:               r.String("code"),
			Barcode:            r.OptString("barcode"),
			Name:               r.String("name"),
			Description:        r.OptString("description"),
			CategoryID:         r.String("category_id"),
			Unit:               r.String("unit"),
			ReorderLevel:       r.Decimal("reorder_level"),
			AllowNegativeStock: r.Bool("allow_negative_stock"),
		}
	},
}

// Customers maps models.Customer.
var Customers = &Table[models.Customer]{
	Name: TableCustomers,
	Columns: []string{
		"code", "name", "phone", "email", "address", "city",
		"credit_limit", "customer_type", "opening_balance", "opening_balance_type",
	},
	Unique: []UniqueField{
		{Column: "code", ReuseDeleted: true},
		{Column: "email", ReuseDeleted: true},
	},
	ToRow: func(c *models.Customer) Row {
		return Row{
			"code":                 c.Code,
			"name":                 c.Name,
			"phone":                nullable(c.Phone),
			"email":                nullable(c.Email),
			"address":              nullable(c.Address),
			"city":                 nullable(c.City),
			"credit_limit":         c.CreditLimit,
			"customer_type":        string(c.CustomerType),
			"opening_balance":      c.OpeningBalance,
			"opening_balance_type": optBalanceType(c.OpeningBalanceType),
		}
	},
	FromRow: func(r Row) models.Customer {
		return models.Customer{
			Base:               readBase(r),
			Code:               r.String("code"),
			Name:               r.String("name"),
			Phone:              r.OptString("phone"),
			Email:              r.OptString("email"),
			Address:            r.OptString("address"),
			City:               r.OptString("city"),
			CreditLimit:        r.Decimal("credit_limit"),
			CustomerType:       models.CustomerType(r.String("customer_type")),
			OpeningBalance:     r.Decimal("opening_balance"),
			OpeningBalanceType: readBalanceType(r, "opening_balance_type"),
		}
	},
}

// Suppliers maps models.Supplier.
var Suppliers = &Table[models.Supplier]{
	Name: TableSuppliers,
	Columns: []string{
		"code", "name", "contact_person", "phone", "email", "address", "city",
		"payment_terms", "opening_balance", "opening_balance_type",
	},
	Unique: []UniqueField{
		{Column: "code", ReuseDeleted: true},
		{Column: "email", ReuseDeleted: true},
	},
	ToRow: func(s *models.Supplier) Row {
		return Row{
			"code":                 s.Code,
			"name":                 s.Name,
			"contact_person":       nullable(s.ContactPerson),
			"phone":                nullable(s.Phone),
			"email":                nullable(s.Email),
			"address":              nullable(s.Address),
			"city":                 nullable(s.City),
			"payment_terms":        nullable(s.PaymentTerms),
			"opening_balance":      s.OpeningBalance,
			"opening_balance_type": optBalanceType(s.OpeningBalanceType),
		}
	},
	FromRow: func(r Row) models.Supplier {
		return models.Supplier{
			Base:               readBase(r),
			Code:               r.String("code"),
			Name:               r.String("name"),
			ContactPerson:      r.OptString("contact_person"),
			Phone:              r.OptString("phone"),
			Email:              r.OptString("email"),
			Address:            r.OptString("address"),
			City:               r.OptString("city"),
			PaymentTerms:       r.OptInt("payment_terms"),
			OpeningBalance:     r.Decimal("opening_balance"),
			OpeningBalanceType: readBalanceType(r, "opening_balance_type"),
		}
	},
}

// Employees maps models.Employee.
var Employees = &Table[models.Employee]{
	Name:    TableEmployees,
	Columns: []string{"name", "email", "phone", "role"},
	Unique:  []UniqueField{{Column: "email", ReuseDeleted: true}},
	ToRow: func(e *models.Employee) Row {
		return Row{"name": e.Name, "email": e.Email, "phone": nullable(e.Phone), "role": e.Role}
	},
	FromRow: func(r Row) models.Employee {
		return models.Employee{
			Base:  readBase(r),
			Name:  r.String("name"),
			Email: r.String("email"),
			Phone: r.OptString("phone"),
			Role:  r.String("role"),
		}
	},
}

// Users maps models.User. Emails of deactivated users stay reserved.
var Users = &Table[models.User]{
	Name:       TableUsers,
	Columns:    []string{"email", "password_hash", "full_name", "role", "employee_id"},
	Unique:     []UniqueField{{Column: "email"}},
	References: []Reference{{Name: "users_employee_id_fkey", Column: "employee_id", Table: TableEmployees}},
	ToRow: func(u *models.User) Row {
		return Row{
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"full_name":     nullable(u.FullName),
			"role":          u.Role,
			"employee_id":   nullable(u.EmployeeID),
		}
	},
	FromRow: func(r Row) models.User {
		return models.User{
			Base:         readBase(r),
			Email:        r.String("email"),
			PasswordHash: r.String("password_hash"),
			FullName:     r.OptString("full_name"),
			Role:         r.String("role"),
			EmployeeID:   r.OptString("employee_id"),
		}
	},
}

// TableDefs returns the constraint sets of every table, for a MemoryStore.
func TableDefs() []TableDef {
	return []TableDef{
		Categories.Def(),
		Stores.Def(),
		Items.Def(),
		Customers.Def(),
		Suppliers.Def(),
		Employees.Def(),
		Users.Def(),
	}
}
