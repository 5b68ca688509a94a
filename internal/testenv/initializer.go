package testenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// Initializer provides an isolated database for one test environment
type Initializer interface {
	// Init returns cfg pointed at a fresh database for the named test
	Init(testName string, cfg config.DatabaseConfig) (config.DatabaseConfig, error)
	// Destroy removes what Init created for the named test
	Destroy(testName string) error
}

var (
	initializersMu sync.RWMutex
	initializers   = make(map[string]Initializer)
)

// RegisterInitializer makes init the initializer for databases of dbType
func RegisterInitializer(dbType string, init Initializer) {
	initializersMu.Lock()
	defer initializersMu.Unlock()
	initializers[dbType] = init
}

func initializerFor(dbType string) (Initializer, error) {
	initializersMu.RLock()
	defer initializersMu.RUnlock()
	init, ok := initializers[dbType]
	if !ok {
		return nil, fmt.Errorf("no initializer registered for database type %q", dbType)
	}
	return init, nil
}

// SqliteInitializer keeps one sqlite file per test under dataDir
type SqliteInitializer struct {
	dataDir string
}

// NewSqliteInitializer creates an initializer writing to dataDir
func NewSqliteInitializer(dataDir string) *SqliteInitializer {
	return &SqliteInitializer{dataDir: dataDir}
}

// Init removes any database left by an earlier run of the same test
func (i *SqliteInitializer) Init(testName string, cfg config.DatabaseConfig) (config.DatabaseConfig, error) {
	if err := os.MkdirAll(i.dataDir, 0o755); err != nil {
		return cfg, fmt.Errorf("failed to create data dir: %w", err)
	}
	path := i.path(testName)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to remove stale database: %w", err)
	}
	cfg.Type = "sqlite"
	cfg.Path = path
	// a single writer avoids SQLITE_BUSY between pooled connections
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	return cfg, nil
}

// Destroy deletes the test's database file
func (i *SqliteInitializer) Destroy(testName string) error {
	if err := os.Remove(i.path(testName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (i *SqliteInitializer) path(testName string) string {
	name := strcase.ToSnake(strings.NewReplacer("/", "_", " ", "_").Replace(testName))
	return filepath.Join(i.dataDir, name+".sqlite")
}
