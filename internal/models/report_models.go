package models

import "time"

// DashboardSummary holds the active record counts shown on the dashboard.
type DashboardSummary struct {
	Categories  int       `json:"categories"`
	Items       int       `json:"items"`
	Stores      int       `json:"stores"`
	Customers   int       `json:"customers"`
	Suppliers   int       `json:"suppliers"`
	Employees   int       `json:"employees"`
	GeneratedAt time.Time `json:"generated_at"`
}
