package domain

// ID is used across domain entities.
type ID = int64

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// Actor identifies the authenticated user performing an operation. Engine
// operations take it as an explicit parameter, never from ambient state.
type Actor struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}
