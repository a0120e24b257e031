// Package schema reports the table layout of a live database as DDL-like
// text for inclusion in an LLM prompt. PostgreSQL and SQLite are supported;
// the driver is chosen from the connection string's scheme.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jxucoder/promptgen/model"
)

// ErrNoDatabase reports that no connection string was configured.
var ErrNoDatabase = errors.New("no database URL configured")

// DefaultTimeout bounds a whole report, connection included.
const DefaultTimeout = 15 * time.Second

// maxDefaultLen caps how much of a column default expression is shown.
const maxDefaultLen = 60

// Config identifies the database to report on.
type Config struct {
	ConnectionString string
	DatabaseName     string
}

// Column is one table column.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	Default    string
	PrimaryKey bool
}

// Table is one base table and its columns in ordinal order.
type Table struct {
	Name    string
	Columns []Column
}

// Reporter inspects databases over sqlx.
type Reporter struct {
	Timeout time.Duration
}

// NewReporter creates a Reporter with DefaultTimeout.
func NewReporter() *Reporter {
	return &Reporter{Timeout: DefaultTimeout}
}

// Report connects to the database described by cfg and returns its schema.
func (r *Reporter) Report(ctx context.Context, cfg Config) (string, error) {
	driver, dsn, err := driverFor(cfg.ConnectionString)
	if err != nil {
		return "", err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	db, err := open(ctx, driver, dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var tables []Table
	switch driver {
	case "postgres":
		tables, err = postgresTables(ctx, db)
	default:
		tables, err = sqliteTables(ctx, db)
	}
	if err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}

	name := cfg.DatabaseName
	if name == "" {
		name = DatabaseName(cfg.ConnectionString)
	}
	return Format(name, driver, tables), nil
}

// DatabaseName derives a short database identifier from a connection string:
// the last path segment of the URL, without query parameters.
func DatabaseName(connStr string) string {
	if u, err := url.Parse(connStr); err == nil {
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			p = u.Host
		}
		if base := path.Base(p); base != "." && base != "/" {
			return base
		}
	}
	s := connStr
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// driverFor maps a connection string to a registered driver name and DSN.
func driverFor(connStr string) (string, string, error) {
	switch {
	case connStr == "":
		return "", "", ErrNoDatabase
	case strings.HasPrefix(connStr, "postgres://"), strings.HasPrefix(connStr, "postgresql://"):
		return "postgres", connStr, nil
	case strings.HasPrefix(connStr, "sqlite://"):
		return "sqlite", strings.TrimPrefix(connStr, "sqlite://"), nil
	case strings.HasPrefix(connStr, "sqlite3://"):
		return "sqlite", strings.TrimPrefix(connStr, "sqlite3://"), nil
	case strings.HasPrefix(connStr, "file:"):
		return "sqlite", strings.TrimPrefix(connStr, "file:"), nil
	case strings.HasSuffix(connStr, ".db"), strings.HasSuffix(connStr, ".sqlite"), strings.HasSuffix(connStr, ".sqlite3"):
		return "sqlite", connStr, nil
	}
	return "", "", fmt.Errorf("unsupported database URL %q", redact(connStr))
}

func open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		// sql.Open would create a missing file.
		file := dsn
		if i := strings.IndexByte(file, '?'); i >= 0 {
			file = file[:i]
		}
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

type pgColumn struct {
	Schema   string `db:"table_schema"`
	Table    string `db:"table_name"`
	Name     string `db:"column_name"`
	Type     string `db:"data_type"`
	Nullable string `db:"is_nullable"`
	Default  string `db:"column_default"`
}

type pgKey struct {
	Schema string `db:"table_schema"`
	Table  string `db:"table_name"`
	Column string `db:"column_name"`
}

func postgresTables(ctx context.Context, db *sqlx.DB) ([]Table, error) {
	var cols []pgColumn
	err := db.SelectContext(ctx, &cols, `
		SELECT c.table_schema, c.table_name, c.column_name, c.data_type, c.is_nullable,
		       COALESCE(c.column_default, '') AS column_default
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE t.table_type = 'BASE TABLE'
		  AND c.table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY c.table_schema, c.table_name, c.ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}

	var keys []pgKey
	err = db.SelectContext(ctx, &keys, `
		SELECT kcu.table_schema, kcu.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'`)
	if err != nil {
		return nil, fmt.Errorf("listing primary keys: %w", err)
	}
	pk := make(map[string]bool, len(keys))
	for _, k := range keys {
		pk[k.Schema+"."+k.Table+"."+k.Column] = true
	}

	var tables []Table
	for _, c := range cols {
		name := c.Schema + "." + c.Table
		if len(tables) == 0 || tables[len(tables)-1].Name != name {
			tables = append(tables, Table{Name: name})
		}
		t := &tables[len(tables)-1]
		t.Columns = append(t.Columns, Column{
			Name:       c.Name,
			Type:       c.Type,
			Nullable:   c.Nullable == "YES",
			Default:    c.Default,
			PrimaryKey: pk[name+"."+c.Name],
		})
	}
	return tables, nil
}

type sqliteColumn struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func sqliteTables(ctx context.Context, db *sqlx.DB) ([]Table, error) {
	var names []string
	err := db.SelectContext(ctx, &names, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		var cols []sqliteColumn
		q := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(name, `"`, `""`))
		if err := db.SelectContext(ctx, &cols, q); err != nil {
			return nil, fmt.Errorf("reading table %s: %w", name, err)
		}
		t := Table{Name: name}
		for _, c := range cols {
			t.Columns = append(t.Columns, Column{
				Name:       c.Name,
				Type:       c.Type,
				Nullable:   c.NotNull == 0 && c.PK == 0,
				Default:    c.Default.String,
				PrimaryKey: c.PK > 0,
			})
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Format renders tables as DDL-like text.
func Format(dbName, driver string, tables []Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Database: %s (%s)\n", dbName, driver)
	if len(tables) == 0 {
		b.WriteString("-- no tables found\n")
		return strings.TrimRight(b.String(), "\n")
	}
	for _, t := range tables {
		fmt.Fprintf(&b, "\nTABLE %s (\n", t.Name)
		for i, c := range t.Columns {
			b.WriteString("  " + c.Name)
			if c.Type != "" {
				b.WriteString(" " + c.Type)
			}
			if c.PrimaryKey {
				b.WriteString(" PRIMARY KEY")
			} else if !c.Nullable {
				b.WriteString(" NOT NULL")
			}
			if c.Default != "" {
				b.WriteString(" DEFAULT " + model.Truncate(c.Default, maxDefaultLen))
			}
			if i < len(t.Columns)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(");\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// redact hides credentials in a connection string for error messages.
func redact(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
