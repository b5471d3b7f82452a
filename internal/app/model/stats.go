package model

// Row shapes for the aggregate statistics queries.

type LabelCount struct {
	Label string
	Count int64
}

type CityCount struct {
	City  *string `json:"city"`
	Count int64   `json:"count"`
}

type AgeBucket struct {
	AgeGroup string `json:"age_group"`
	Count    int64  `json:"count"`
}

type TrafficSource struct {
	TrafficSource string `json:"traffic_source"`
	Count         int64  `json:"count"`
}

type TopCustomer struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	OrderCount int64  `json:"order_count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type MonthStatusCount struct {
	Month  string `json:"month"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CityItems struct {
	City       *string  `json:"city"`
	AvgItems   *float64 `json:"avg_items"`
	OrderCount int64    `json:"order_count"`
}

// AgeGroups are the fixed, non-overlapping age bands in display order.
var AgeGroups = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

type OverviewStats struct {
	TotalCustomers       int64            `json:"total_customers"`
	TotalOrders          int64            `json:"total_orders"`
	StatusDistribution   map[string]int64 `json:"status_distribution"`
	AverageItemsPerOrder float64          `json:"average_items_per_order"`
	TopCities            []CityCount      `json:"top_cities"`
}

type CustomerStats struct {
	GenderDistribution map[string]int64 `json:"gender_distribution"`
	AgeDistribution    []AgeBucket      `json:"age_distribution"`
	TrafficSources     []TrafficSource  `json:"traffic_sources"`
	TopCustomers       []TopCustomer    `json:"top_customers"`
}

type OrderStats struct {
	MonthlyTrends       []MonthCount       `json:"monthly_trends"`
	CompletionByMonth   []MonthStatusCount `json:"completion_by_month"`
	CityStats           []CityItems        `json:"city_stats"`
	AverageDeliveryDays *float64           `json:"average_delivery_days"`
}
