package services

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"hardware_shop_backend/internal/metrics"
	"hardware_shop_backend/internal/models"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/internal/validation"
	"hardware_shop_backend/pkg/utils"
)

// Deps carries what every master-data service is built from.
type Deps struct {
	Store   repositories.Store
	Metrics *metrics.Metrics
	// ReuseDeletedUniqueValues lets a new record take a unique value held by a deleted one.
	ReuseDeletedUniqueValues bool
	// Settings supply the item defaults.
	Settings    models.ShopSettings
	RepoOptions []repositories.Option
}

// Services groups the master-data services.
type Services struct {
	Categories *MasterService[models.Category]
	Stores     *MasterService[models.Store]
	Items      *MasterService[models.Item]
	Customers  *MasterService[models.Customer]
	Suppliers  *MasterService[models.Supplier]
	Employees  *MasterService[models.Employee]
}

// NewServices builds every master-data service over one store.
func NewServices(d Deps) *Services {
	return &Services{
		Categories: NewCategoryService(d),
		Stores:     NewStoreService(d),
		Items:      NewItemService(d),
		Customers:  NewCustomerService(d),
		Suppliers:  NewSupplierService(d),
		Employees:  NewEmployeeService(d),
	}
}

// TableDefs returns the constraint sets for a MemoryStore under the given uniqueness policy.
// Users keep their strict email rule whatever the policy.
func TableDefs(reuseDeleted bool) []repositories.TableDef {
	return []repositories.TableDef{
		repositories.Categories.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Stores.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Items.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Customers.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Suppliers.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Employees.WithReuseDeleted(reuseDeleted).Def(),
		repositories.Users.Def(),
	}
}

func newRepo[T any](d Deps, table *repositories.Table[T]) *repositories.Repository[T] {
	return repositories.NewRepository(d.Store, table.WithReuseDeleted(d.ReuseDeletedUniqueValues), d.RepoOptions...)
}

var byName = repositories.Order{Column: "name", Ascending: true}

func idFilter(raw string) (any, error) { return utils.ParseID(raw) }

func boolFilter(raw string) (any, error) { return strconv.ParseBool(raw) }

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// NewCategoryService creates the category service.
func NewCategoryService(d Deps) *MasterService[models.Category] {
	return NewMasterService(newRepo(d, repositories.Categories), Entity[models.Category]{
		Label:  "Category",
		Schema: validation.Category,
		Unique: []UniqueRule[models.Category]{
			{Column: "name", Message: "Category name already exists", Value: func(c *models.Category) any { return c.Name }},
		},
		Filterable:   []string{"name"},
		DefaultOrder: byName,
	}, d.Metrics)
}

// NewStoreService creates the store service.
func NewStoreService(d Deps) *MasterService[models.Store] {
	return NewMasterService(newRepo(d, repositories.Stores), Entity[models.Store]{
		Label:  "Store",
		Schema: validation.Store,
		Unique: []UniqueRule[models.Store]{
			{Column: "code", Message: "Store code already exists", Value: func(s *models.Store) any { return s.Code }},
			{Column: "email", Message: "Email already exists", Value: func(s *models.Store) any { return optString(s.Email) }},
		},
		Filterable:   []string{"code", "name", "email"},
		DefaultOrder: byName,
	}, d.Metrics)
}

// NewItemService creates the item service. An item must reference an active category.
// New items default to the shop's low stock threshold as reorder level and to its
// negative stock policy.
func NewItemService(d Deps) *MasterService[models.Item] {
	categories := newRepo(d, repositories.Categories)
	schema := validation.ItemSchema(
		decimal.NewFromInt(int64(d.Settings.LowStockThreshold)),
		d.Settings.AllowNegativeStock,
	)
	return NewMasterService(newRepo(d, repositories.Items), Entity[models.Item]{
		Label:  "Item",
		Schema: schema,
		Unique: []UniqueRule[models.Item]{
			{Column: "code", Message: "Item code already exists", Value: func(i *models.Item) any { return i.Code }},
		},
		Filterable: []string{"code", "barcode", "category_id", "unit", "allow_negative_stock"},
		FilterParsers: map[string]FilterParser{
			"category_id":          idFilter,
			"allow_negative_stock": boolFilter,
		},
		DefaultOrder: byName,
		References: func(ctx context.Context, i *models.Item, columns []string) error {
			if columns != nil && !slices.Contains(columns, "category_id") {
				return nil
			}
			_, err := categories.FetchOne(ctx, i.CategoryID)
			if errors.Is(err, repositories.ErrNotFound) {
				return conflict("category_id", "Category not found", err)
			}
			return err
		},
		ReferenceMessages: map[string]string{"category_id": "Category not found"},
	}, d.Metrics)
}

// NewCustomerService creates the customer service.
func NewCustomerService(d Deps) *MasterService[models.Customer] {
	return NewMasterService(newRepo(d, repositories.Customers), Entity[models.Customer]{
		Label:  "Customer",
		Schema: validation.Customer,
		Unique: []UniqueRule[models.Customer]{
			{Column: "code", Message: "Customer code already exists", Value: func(c *models.Customer) any { return c.Code }},
			{Column: "email", Message: "Email already exists", Value: func(c *models.Customer) any { return optString(c.Email) }},
		},
		Filterable:   []string{"code", "customer_type", "city", "email"},
		DefaultOrder: byName,
	}, d.Metrics)
}

// NewSupplierService creates the supplier service.
func NewSupplierService(d Deps) *MasterService[models.Supplier] {
	return NewMasterService(newRepo(d, repositories.Suppliers), Entity[models.Supplier]{
		Label:  "Supplier",
		Schema: validation.Supplier,
		Unique: []UniqueRule[models.Supplier]{
			{Column: "code", Message: "Supplier code already exists", Value: func(s *models.Supplier) any { return s.Code }},
			{Column: "email", Message: "Email already exists", Value: func(s *models.Supplier) any { return optString(s.Email) }},
		},
		Filterable:   []string{"code", "city", "email"},
		DefaultOrder: byName,
	}, d.Metrics)
}

// NewEmployeeService creates the employee service.
func NewEmployeeService(d Deps) *MasterService[models.Employee] {
	return NewMasterService(newRepo(d, repositories.Employees), Entity[models.Employee]{
		Label:  "Employee",
		Schema: validation.Employee,
		Unique: []UniqueRule[models.Employee]{
			{Column: "email", Message: "Email already exists", Value: func(e *models.Employee) any { return e.Email }},
		},
		Filterable:   []string{"role", "email"},
		DefaultOrder: byName,
	}, d.Metrics)
}
