package schemas

type DataResponse[T any] struct {
	Data T `json:"data"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
