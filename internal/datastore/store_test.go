// internal/datastore/store_test.go
package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"northwind-agent/internal/common/logger"
)

func newMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, driver, logger.NewTestLogger(t)), mock
}

func TestStore_Execute_Success(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	mock.ExpectQuery("SELECT COUNT(*) AS n FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(830)))

	outcome := store.Execute(context.Background(), "SELECT COUNT(*) AS n FROM orders")

	assert.False(t, outcome.Failed())
	require.Len(t, outcome.Rows, 1)
	assert.Equal(t, int64(830), outcome.Rows[0]["n"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Execute_ByteColumnsBecomeStrings(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	mock.ExpectQuery("SELECT ProductName FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"ProductName"}).AddRow([]byte("Chai")))

	outcome := store.Execute(context.Background(), "SELECT ProductName FROM products")

	require.Len(t, outcome.Rows, 1)
	assert.Equal(t, "Chai", outcome.Rows[0]["ProductName"])
}

func TestStore_Execute_FailureCarriesMarker(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	mock.ExpectQuery("SELECT nope FROM orders").
		WillReturnError(errors.New("no such column: nope"))

	outcome := store.Execute(context.Background(), "SELECT nope FROM orders")

	assert.True(t, outcome.Failed())
	assert.Equal(t, "SQL Error: no such column: nope", outcome.Err)
}

func TestStore_Execute_EmptyResult(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	mock.ExpectQuery("SELECT OrderID FROM orders WHERE 1=0").
		WillReturnRows(sqlmock.NewRows([]string{"OrderID"}))

	outcome := store.Execute(context.Background(), "SELECT OrderID FROM orders WHERE 1=0")

	assert.False(t, outcome.Failed())
	assert.True(t, outcome.Empty())
}

func TestStore_Execute_AppliesSqliteRewrites(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	// The mock must see the rewritten form, not the generator's original.
	mock.ExpectQuery("SELECT CAST(strftime('%Y', OrderDate) AS INTEGER) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"y"}).AddRow(int64(1997)))

	outcome := store.Execute(context.Background(), "SELECT YEAR(OrderDate) FROM orders")

	assert.False(t, outcome.Failed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Execute_PostgresPassesThrough(t *testing.T) {
	store, mock := newMockStore(t, "postgres")

	mock.ExpectQuery("SELECT YEAR(OrderDate) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"y"}).AddRow(int64(1997)))

	outcome := store.Execute(context.Background(), "SELECT YEAR(OrderDate) FROM orders")

	assert.False(t, outcome.Failed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TableCitations(t *testing.T) {
	store, _ := newMockStore(t, "sqlite")

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			"single table",
			"SELECT COUNT(*) FROM orders",
			[]string{"orders"},
		},
		{
			"join in known-table order",
			"SELECT p.ProductName FROM products p JOIN order_items oi ON p.ProductID = oi.ProductID",
			[]string{"order_items", "products"},
		},
		{
			"case insensitive",
			"SELECT * FROM Customers",
			[]string{"customers"},
		},
		{
			"unknown tables ignored",
			"SELECT * FROM shippers",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.TableCitations(tt.query))
		})
	}
}

func TestStore_Schema_Sqlite(t *testing.T) {
	store, mock := newMockStore(t, "sqlite")

	cols := []string{"cid", "name", "type", "notnull", "dflt_value", "pk"}
	mock.ExpectQuery("PRAGMA table_info(orders)").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(0, "OrderID", "INTEGER", 1, nil, 1).
			AddRow(1, "OrderDate", "TEXT", 0, nil, 0))
	for _, table := range []string{"order_items", "products", "customers", "categories", "suppliers"} {
		mock.ExpectQuery("PRAGMA table_info(" + table + ")").
			WillReturnRows(sqlmock.NewRows(cols))
	}

	schema, err := store.Schema(context.Background())
	require.NoError(t, err)

	assert.Contains(t, schema, "Table: orders")
	assert.Contains(t, schema, "Columns: OrderID (INTEGER), OrderDate (TEXT)")
	assert.NotContains(t, schema, "Table: products", "absent tables are skipped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Schema_Postgres(t *testing.T) {
	store, mock := newMockStore(t, "postgres")

	const introspect = `SELECT column_name, data_type FROM information_schema.columns
			 WHERE table_name = $1 ORDER BY ordinal_position`

	mock.ExpectQuery(introspect).WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("order_id", "integer").
			AddRow("order_date", "date"))
	for _, table := range []string{"order_items", "products", "customers", "categories", "suppliers"} {
		mock.ExpectQuery(introspect).WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}))
	}

	schema, err := store.Schema(context.Background())
	require.NoError(t, err)

	assert.Contains(t, schema, "Table: orders")
	assert.Contains(t, schema, "Columns: order_id (integer), order_date (date)")
}

func TestRewriteForDialect(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		driver   string
		expected string
	}{
		{
			"year call on sqlite",
			"SELECT YEAR(OrderDate) FROM orders",
			"sqlite",
			"SELECT CAST(strftime('%Y', OrderDate) AS INTEGER) FROM orders",
		},
		{
			"month call on sqlite",
			"SELECT MONTH(OrderDate) FROM orders",
			"sqlite",
			"SELECT CAST(strftime('%m', OrderDate) AS INTEGER) FROM orders",
		},
		{
			"lowercase matches",
			"select year(OrderDate) from orders",
			"sqlite",
			"select CAST(strftime('%Y', OrderDate) AS INTEGER) from orders",
		},
		{
			"both in one predicate",
			"WHERE YEAR(OrderDate) = 1997 AND MONTH(OrderDate) = 6",
			"sqlite",
			"WHERE CAST(strftime('%Y', OrderDate) AS INTEGER) = 1997 AND CAST(strftime('%m', OrderDate) AS INTEGER) = 6",
		},
		{
			"column named yearly untouched",
			"SELECT yearly_total FROM orders",
			"sqlite",
			"SELECT yearly_total FROM orders",
		},
		{
			"postgres passes through",
			"SELECT YEAR(OrderDate) FROM orders",
			"postgres",
			"SELECT YEAR(OrderDate) FROM orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RewriteForDialect(tt.query, tt.driver))
		})
	}
}
