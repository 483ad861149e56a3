package domain

// DashboardStats is the on-demand platform-wide summary. Counts and the
// revenue sum are computed fresh on every call; nothing is cached.
type DashboardStats struct {
	TotalUsers      int     `json:"total_users"`
	TotalProjects   int     `json:"total_projects"`
	ActiveProjects  int     `json:"active_projects"`
	TotalOrders     int     `json:"total_orders"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}
