// internal/datastore/store.go
package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"northwind-agent/internal/common/logger"
)

// ErrorMarker prefixes every data-store-level execution error. The repair
// logic downstream recognizes failures by this fixed marker.
const ErrorMarker = "SQL Error: "

// DefaultKnownTables is the fixed table set used for schema description and
// citation derivation. Treated as configuration, never inferred.
var DefaultKnownTables = []string{
	"orders", "order_items", "products", "customers", "categories", "suppliers",
}

// Row is one result record keyed by column name.
type Row = map[string]interface{}

// Outcome is the tagged result of one execution attempt: rows on success,
// zero rows for an empty result, or a marker-prefixed error message.
type Outcome struct {
	Rows []Row  `json:"rows,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Failed reports whether the attempt produced an execution error.
func (o Outcome) Failed() bool { return o.Err != "" }

// Empty reports a successful attempt that matched no rows.
func (o Outcome) Empty() bool { return o.Err == "" && len(o.Rows) == 0 }

// Store executes queries against the fixed relational dataset and describes
// its schema for the generator.
type Store struct {
	db     *sql.DB
	driver string
	tables []string
	logger logger.Logger
}

// New wraps an open connection. driver is "sqlite" or "postgres" and selects
// introspection SQL plus the dialect rewrites applied before execution.
func New(db *sql.DB, driver string, log logger.Logger) *Store {
	return &Store{
		db:     db,
		driver: driver,
		tables: DefaultKnownTables,
		logger: log.With(map[string]interface{}{"component": "datastore"}),
	}
}

// Tables returns the known-table set.
func (s *Store) Tables() []string { return s.tables }

// Driver returns the configured driver name.
func (s *Store) Driver() string { return s.driver }

// Schema returns a compressed text description of the known tables for the
// generator. Tables absent from the database are silently skipped.
func (s *Store) Schema(ctx context.Context) (string, error) {
	var parts []string
	for _, table := range s.tables {
		cols, err := s.columns(ctx, table)
		if err != nil {
			return "", fmt.Errorf("describe %s: %w", table, err)
		}
		if len(cols) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("Table: %s", table))
		parts = append(parts, fmt.Sprintf("Columns: %s", strings.Join(cols, ", ")))
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n"), nil
}

func (s *Store) columns(ctx context.Context, table string) ([]string, error) {
	var rows *sql.Rows
	var err error

	if s.driver == "postgres" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT column_name, data_type FROM information_schema.columns
			 WHERE table_name = $1 ORDER BY ordinal_position`, table)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var cols []string
		for rows.Next() {
			var name, typ string
			if err := rows.Scan(&name, &typ); err != nil {
				return nil, err
			}
			cols = append(cols, fmt.Sprintf("%s (%s)", name, typ))
		}
		return cols, rows.Err()
	}

	rows, err = s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, fmt.Sprintf("%s (%s)", name, typ))
	}
	return cols, rows.Err()
}

// Execute runs a query after applying the dialect rewrites and returns the
// outcome. Execution errors never surface as Go errors: they become a
// marker-prefixed message so the repair loop can feed them back verbatim.
func (s *Store) Execute(ctx context.Context, query string) Outcome {
	rewritten := RewriteForDialect(query, s.driver)
	if rewritten != query {
		s.logger.Debug("applied dialect rewrites", map[string]interface{}{
			"original":  query,
			"rewritten": rewritten,
		})
	}

	rows, err := s.db.QueryContext(ctx, rewritten)
	if err != nil {
		return Outcome{Err: ErrorMarker + err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Outcome{Err: ErrorMarker + err.Error()}
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Outcome{Err: ErrorMarker + err.Error()}
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return Outcome{Err: ErrorMarker + err.Error()}
	}

	return Outcome{Rows: out}
}

// TableCitations returns the known tables textually referenced by the query,
// matched case-insensitively. A heuristic: aliased or quoted identifiers may
// be missed, which is tolerated.
func (s *Store) TableCitations(query string) []string {
	lower := strings.ToLower(query)
	var out []string
	for _, t := range s.tables {
		if strings.Contains(lower, t) {
			out = append(out, t)
		}
	}
	return out
}
