package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// EngineConfig configures the middleware chain shared by every route
type EngineConfig struct {
	CORS        middleware.CORSConfig
	MaxBodySize int64
	Tracing     middleware.TracingConfig
}

// NewEngine creates a gin engine with request ID, logging, recovery,
// security headers, CORS and body size limits installed. Enabled tracing
// wraps all of them in a server span.
func NewEngine(cfg EngineConfig, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	return engine
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithBasePath mounts every registrar under path, e.g. behind a reverse proxy prefix
func WithBasePath(path string) RouterOption {
	return func(r *Router) {
		r.basePath = path
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group(r.basePath)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// APIGroup is a route group for one API surface, e.g. the shop or admin API
type APIGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewAPIGroup creates a new route group
func NewAPIGroup(name, prefix string) *APIGroup {
	return &APIGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (g *APIGroup) Use(middleware ...gin.HandlerFunc) *APIGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// GET registers a GET route
func (g *APIGroup) GET(path string, handlers ...gin.HandlerFunc) *APIGroup {
	g.routes = append(g.routes, routeDefinition{method: "GET", path: path, handlers: handlers})
	return g
}

// POST registers a POST route
func (g *APIGroup) POST(path string, handlers ...gin.HandlerFunc) *APIGroup {
	g.routes = append(g.routes, routeDefinition{method: "POST", path: path, handlers: handlers})
	return g
}

// RegisterRoutes implements RouteRegistrar interface
func (g *APIGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix)
	if len(g.middleware) > 0 {
		group.Use(g.middleware...)
	}

	for _, route := range g.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (g *APIGroup) Name() string {
	return g.name
}

// Prefix returns the group prefix
func (g *APIGroup) Prefix() string {
	return g.prefix
}
