package services

import (
	"context"
	"time"

	"hardware_shop_backend/internal/models"
)

// DashboardService aggregates figures shown on the back-office dashboard.
type DashboardService struct {
	svc *Services
	now func() time.Time
}

// NewDashboardService creates a DashboardService reading through svc. Summaries are
// stamped in loc, the shop timezone; nil means UTC.
func NewDashboardService(svc *Services, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{svc: svc, now: func() time.Time { return time.Now().In(loc) }}
}

// Summary counts the active records of every master-data entity.
func (d *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	out := &models.DashboardSummary{GeneratedAt: d.now()}
	counts := []struct {
		dst   *int
		count func(context.Context, map[string]string) (int, error)
	}{
		{&out.Categories, d.svc.Categories.Count},
		{&out.Items, d.svc.Items.Count},
		{&out.Stores, d.svc.Stores.Count},
		{&out.Customers, d.svc.Customers.Count},
		{&out.Suppliers, d.svc.Suppliers.Count},
		{&out.Employees, d.svc.Employees.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx, nil)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return out, nil
}
