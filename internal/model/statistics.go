package model

// PriorityCounts buckets item counts by priority, with an explicit bucket
// for items that have none assigned.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	None   int `json:"none"`
}

// TrendDay is one day of the trailing completion trend.
type TrendDay struct {
	// Date is the day in yyyy-MM-dd form.
	Date string `json:"date"`

	// Completed counts items whose completion fell on this day.
	Completed int `json:"completed"`

	// Total is the store size, repeated per day for percentage rendering.
	Total int `json:"total"`
}

// Statistics is the flat aggregation view over the item store, recomputed
// in full on every refresh.
type Statistics struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	DueSoon    int            `json:"due_soon"`
	ByPriority PriorityCounts `json:"by_priority"`
	ByTag      map[string]int `json:"by_tag"`
	Trend      []TrendDay     `json:"completion_trend"`
}
