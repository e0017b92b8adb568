package catalog

// Result is the uniform envelope every engine operation resolves to.
// Engine errors are converted here instead of propagating to callers; Err
// keeps the typed error for transport-status mapping and is never serialized.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Err     error  `json:"-"`
}

// ListResult is the page shape getAll resolves to
type ListResult struct {
	Result         []map[string]any `json:"result"`
	CurrentPage    int              `json:"currentPage"`
	TotalPages     int              `json:"totalPages"`
	TotalDocuments int64            `json:"totalDocuments"`
}

// ListQuery carries getAll parameters. Page <= 0 requests the full
// unpaginated result set.
type ListQuery struct {
	Filters  map[string]any
	Sort     string
	Page     int
	Limit    int
	Populate []string
	Select   []string
}

func success(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func failure(err error) Result {
	return Result{Success: false, Message: err.Error(), Err: err}
}
