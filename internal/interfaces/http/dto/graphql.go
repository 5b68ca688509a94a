package dto

// GraphQLRequest is the POST body accepted by both GraphQL endpoints
type GraphQLRequest struct {
	Query         string         `json:"query" binding:"required"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// GraphQLError is a transport-level error in GraphQL response shape
type GraphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrorResponse wraps transport errors raised before execution
type GraphQLErrorResponse struct {
	Errors []GraphQLError `json:"errors"`
}

// NewGraphQLErrorResponse builds a single-error response with a code extension
func NewGraphQLErrorResponse(code, message string) GraphQLErrorResponse {
	return GraphQLErrorResponse{
		Errors: []GraphQLError{{
			Message:    message,
			Extensions: map[string]any{"code": code},
		}},
	}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}
