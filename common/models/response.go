package models

// BaseResponse wraps a successful API payload
type BaseResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse carries the status text plus a human readable message
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

// MetaResponse holds pagination metadata
type MetaResponse struct {
	CurrentPage int64 `json:"current_page"`
	LastPage    int64 `json:"last_page"`
	PerPage     int64 `json:"per_page"`
	Total       int64 `json:"total"`
}

// BasePaginationResponse wraps a paginated API payload
type BasePaginationResponse struct {
	Data interface{}  `json:"data"`
	Meta MetaResponse `json:"meta"`
}
