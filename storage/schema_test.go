package storage

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestAppendURLParams(t *testing.T) {
	// test windows path
	url, err := AppendURLParams(`c:\\sqlite.db`, []lo.Tuple2[string, string]{{"a", "b"}})
	assert.NoError(t, err)
	assert.Equal(t, `c:\\sqlite.db?a=b`, url)
	// test no scheme
	url, err = AppendURLParams(`sqlite.db`, []lo.Tuple2[string, string]{{"a", "b"}})
	assert.NoError(t, err)
	assert.Equal(t, `sqlite.db?a=b`, url)
}

func TestAppendMySQLParams(t *testing.T) {
	dsn, err := AppendMySQLParams("root:password@tcp(127.0.0.1:3306)/slopeone?parseTime=false", map[string]string{
		"parseTime": "true",
		"sql_mode":  "'STRICT_TRANS_TABLES'",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=false")
	assert.Contains(t, dsn, "sql_mode=")
}

func TestTablePrefix(t *testing.T) {
	prefix := TablePrefix("test_")
	assert.Equal(t, "test_events", prefix.EventsTable())
	assert.Equal(t, "test_users", prefix.Key("users"))
}

func TestNewGORMConfig(t *testing.T) {
	cfg := NewGORMConfig("test_")
	assert.Equal(t, 1000, cfg.CreateBatchSize)
	assert.True(t, cfg.SkipDefaultTransaction)
	assert.Equal(t, "test_events", cfg.NamingStrategy.(schema.NamingStrategy).TableName("EventRecord"))
}
