package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type plantRow struct {
	ID   uint
	Name string
}

func TestDBMetricsPlugin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	reg := NewRegistry()
	plugin := NewDBMetricsPlugin(reg, time.Hour, nil)
	require.NoError(t, db.Use(plugin))
	require.NoError(t, db.AutoMigrate(&plantRow{}))

	require.NoError(t, db.Create(&plantRow{Name: "cactus"}).Error)
	selectsBefore := testutil.ToFloat64(plugin.queries.WithLabelValues("SELECT", "ok"))

	var found plantRow
	require.NoError(t, db.First(&found).Error)
	assert.Equal(t, "cactus", found.Name)

	var missing plantRow
	assert.ErrorIs(t, db.First(&missing, 99).Error, gorm.ErrRecordNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(plugin.queries.WithLabelValues("INSERT", "ok")))
	assert.Equal(t, selectsBefore+2, testutil.ToFloat64(plugin.queries.WithLabelValues("SELECT", "ok")))
	assert.Equal(t, 0, testutil.CollectAndCount(plugin.slowQueries))

	_, err = reg.Gatherer().Gather()
	require.NoError(t, err)
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM orders":        "SELECT",
		"  insert into orders":        "INSERT",
		"UPDATE orders SET active=0":  "UPDATE",
		"DELETE FROM order_lines":     "DELETE",
		"CREATE TABLE x (id integer)": "OTHER",
		"":                            "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}
