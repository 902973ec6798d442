package transport

// LoginRequest carries the authentication input.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TaskRequest is the body of create and update task calls.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StatusRequest is the body of the status-transition call.
type StatusRequest struct {
	Status string `json:"status"`
}

// GraphQLRequest is the body accepted by the query endpoint.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}
