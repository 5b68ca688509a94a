package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/graphql/schema"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// GraphQLOperationKey is the gin key the request logger reads the operation name from
const GraphQLOperationKey = "graphql_operation"

// TokenIssuer turns a session token into the bearer token handed to clients
type TokenIssuer interface {
	Issue(sessionToken string, expiresAt time.Time) (string, error)
}

// GraphQLHandler executes GraphQL requests against one schema
type GraphQLHandler struct {
	api             string
	schema          graphql.Schema
	tokens          TokenIssuer
	metrics         *telemetry.GraphQLMetrics
	authTokenHeader string
}

// NewGraphQLHandler creates a handler for the named API. metrics may be nil.
func NewGraphQLHandler(api string, s graphql.Schema, tokens TokenIssuer, metrics *telemetry.GraphQLMetrics, authTokenHeader string) *GraphQLHandler {
	return &GraphQLHandler{
		api:             api,
		schema:          s,
		tokens:          tokens,
		metrics:         metrics,
		authTokenHeader: authTokenHeader,
	}
}

// Serve handles POST requests carrying a GraphQL document
func (h *GraphQLHandler) Serve(c *gin.Context) {
	start := time.Now()
	log := logger.GetGinLogger(c)

	var req dto.GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewGraphQLErrorResponse("BAD_REQUEST", "Request body must contain a GraphQL query"))
		return
	}
	c.Set(GraphQLOperationKey, req.OperationName)

	ctx, state := schema.WithRequestState(c.Request.Context())
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if cs := state.IssuedSession(); cs != nil {
		token, err := h.tokens.Issue(cs.Token, cs.ExpiresAt)
		if err != nil {
			log.Error("Failed to issue auth token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewGraphQLErrorResponse("INTERNAL_SERVER_ERROR", "Failed to issue auth token"))
			return
		}
		c.Header(h.authTokenHeader, token)
	} else if state.SessionCleared() {
		c.Header(h.authTokenHeader, "")
	}

	status := telemetry.StatusOK
	switch {
	case result.HasErrors():
		status = telemetry.StatusError
		for _, e := range result.Errors {
			log.Debug("GraphQL error", zap.String("message", e.Message))
		}
	case state.ErrorResults() > 0:
		status = telemetry.StatusErrorResult
	}
	if h.metrics != nil {
		h.metrics.Observe(h.api, req.OperationName, status, time.Since(start))
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes mounts the handler at the group root
func (h *GraphQLHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Serve)
}
