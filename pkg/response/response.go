// Package response defines the envelope every API endpoint returns: a
// status word, the HTTP code echoed in the body, and either the payload
// or an error message.
package response

type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// PageData wraps one page of ledger rows with the pagination echo the
// frontend tables consume.
type PageData struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paginated returns a success response carrying one page of items.
func Paginated(statusCode int, items interface{}, total int64, page, limit int) Response {
	return Success(statusCode, PageData{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
