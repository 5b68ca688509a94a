// Package testenv runs a complete backend against an isolated database and
// drives it through GraphQL clients, for end-to-end tests.
package testenv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/shopfront/backend/internal/app"
	"github.com/shopfront/backend/internal/application/populate"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// CustomerPassword is the password of every seeded customer
const CustomerPassword = "test"

// Options controls what TestServer.Init populates
type Options struct {
	InitialData     *populate.InitialData
	ProductsCSVPath string
	// CustomerCount defaults to 10
	CustomerCount int
}

// TestServer is a backend served over a local HTTP listener
type TestServer struct {
	t           testing.TB
	cfg         *config.Config
	initializer Initializer
	name        string
	log         *zap.Logger

	mu   sync.RWMutex
	app  *app.App
	http *httptest.Server
}

func newTestServer(t testing.TB, cfg *config.Config, init Initializer) *TestServer {
	s := &TestServer{
		t:           t,
		cfg:         cfg,
		initializer: init,
		name:        t.Name(),
		log:         zaptest.NewLogger(t, zaptest.Level(logger.ParseLevel(cfg.Log.Level))),
	}
	s.http = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

func (s *TestServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	a := s.app
	s.mu.RUnlock()
	if a == nil {
		http.Error(w, "test server not initialized", http.StatusServiceUnavailable)
		return
	}
	a.Handler().ServeHTTP(w, r)
}

// URL is the base URL of the server
func (s *TestServer) URL() string {
	return s.http.URL
}

// Init creates the database, wires the app and populates it. It gives up
// when ctx is done.
func (s *TestServer) Init(ctx context.Context, opts Options) error {
	if opts.InitialData == nil {
		return errors.New("testenv: initial data is required")
	}
	if opts.CustomerCount == 0 {
		opts.CustomerCount = 10
	}

	cfg := *s.cfg
	db, err := s.initializer.Init(s.name, cfg.Database)
	if err != nil {
		return err
	}
	cfg.Database = db

	a, err := app.New(ctx, &cfg, s.log)
	if err != nil {
		return err
	}
	if err := s.populate(ctx, a, opts); err != nil {
		_ = a.Close()
		return err
	}

	s.mu.Lock()
	s.app = a
	s.mu.Unlock()
	s.log.Info("Test server ready", zap.String("url", s.URL()), zap.String("database", cfg.Database.Path))
	return nil
}

func (s *TestServer) populate(ctx context.Context, a *app.App, opts Options) error {
	populator := a.Populator()
	ch, err := populator.Populate(ctx, opts.InitialData)
	if err != nil {
		return fmt.Errorf("failed to populate initial data: %w", err)
	}

	if opts.ProductsCSVPath != "" {
		f, err := os.Open(opts.ProductsCSVPath)
		if err != nil {
			return fmt.Errorf("failed to open products csv: %w", err)
		}
		defer f.Close()

		result, err := a.Importer().ImportProducts(ctx, ch, f)
		if err != nil {
			return fmt.Errorf("failed to import products: %w", err)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("product import reported %d row errors, first: %s", len(result.Errors), result.Errors[0].Error())
		}
		s.log.Debug("Imported products", zap.Int("products", result.Products), zap.Int("variants", result.Variants))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := populator.PopulateCollections(ctx, opts.InitialData.Collections); err != nil {
		return fmt.Errorf("failed to populate collections: %w", err)
	}
	if _, err := populate.SeedCustomers(ctx, a.Customers, opts.CustomerCount, CustomerPassword); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}
	// zones were attached to the channel after it was first read
	a.Channels.Invalidate()
	return nil
}

// App returns the wired services; nil before Init
func (s *TestServer) App() *app.App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app
}

// Destroy stops the listener, closes the app and removes the database.
// It is safe to call more than once.
func (s *TestServer) Destroy() error {
	s.http.Close()

	s.mu.Lock()
	a := s.app
	s.app = nil
	s.mu.Unlock()

	var errs []error
	if a != nil {
		errs = append(errs, a.Close())
	}
	errs = append(errs, s.initializer.Destroy(s.name))
	return errors.Join(errs...)
}

// TestEnvironment is a server and one client per API
type TestEnvironment struct {
	Server      *TestServer
	AdminClient *SimpleGraphQLClient
	ShopClient  *SimpleGraphQLClient
}

// CreateTestEnvironment builds a server for cfg with the initializer
// registered for cfg.Database.Type. The server is destroyed when t finishes.
func CreateTestEnvironment(t testing.TB, cfg *config.Config) *TestEnvironment {
	t.Helper()

	init, err := initializerFor(cfg.Database.Type)
	if err != nil {
		t.Fatal(err)
	}

	server := newTestServer(t, cfg, init)
	t.Cleanup(func() {
		if err := server.Destroy(); err != nil {
			t.Errorf("failed to destroy test server: %v", err)
		}
	})

	cc := clientConfig{
		authTokenHeader:    cfg.Auth.AuthTokenHeader,
		channelTokenHeader: cfg.API.ChannelTokenHeader,
		channelToken:       cfg.API.DefaultChannelToken,
		superadminUsername: cfg.Auth.SuperadminUsername,
		superadminPassword: cfg.Auth.SuperadminPassword,
	}
	return &TestEnvironment{
		Server:      server,
		AdminClient: newClient(server.URL, cfg.API.AdminAPIPath, cc),
		ShopClient:  newClient(server.URL, cfg.API.ShopAPIPath, cc),
	}
}
