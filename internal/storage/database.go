package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Params holds values for the :name placeholders of a query.
type Params map[string]any

// Record is one result row keyed by column name. SQL NULL is nil and
// []byte values are converted to string.
type Record map[string]any

func (r Record) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) Int64(column string) int64 {
	n, _ := toInt64(r[column])
	return n
}

type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// ILike is the case-insensitive LIKE operator of the dialect.
func (d Dialect) ILike() string {
	if d == DialectPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

// Database is a thin facade over database/sql that accepts named placeholders.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

func NewDatabase(db *sql.DB, dialect Dialect) *Database {
	return &Database{db: db, dialect: dialect}
}

func (d *Database) Dialect() Dialect {
	return d.dialect
}

func (d *Database) Execute(ctx context.Context, query string, params Params) (sql.Result, error) {
	q, args, err := bind(d.dialect, query, params)
	if err != nil {
		return nil, err
	}
	res, err := d.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return res, nil
}

// FetchOne returns the first matching row, or nil when there is none.
func (d *Database) FetchOne(ctx context.Context, query string, params Params) (Record, error) {
	records, err := d.fetch(ctx, query, params, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (d *Database) FetchAll(ctx context.Context, query string, params Params) ([]Record, error) {
	return d.fetch(ctx, query, params, 0)
}

// FetchVal returns the first column of the first row, or ErrNotFound.
func (d *Database) FetchVal(ctx context.Context, query string, params Params) (any, error) {
	q, args, err := bind(d.dialect, query, params)
	if err != nil {
		return nil, err
	}
	var v any
	if err := d.db.QueryRowContext(ctx, q, args...).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch value: %w", err)
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) fetch(ctx context.Context, query string, params Params, max int) ([]Record, error) {
	q, args, err := bind(d.dialect, query, params)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		records = append(records, rec)
		if max > 0 && len(records) == max {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

// bind rewrites :name placeholders into the dialect's positional form.
// Quoted literals and Postgres :: casts are copied through unchanged.
func bind(dialect Dialect, query string, params Params) (string, []any, error) {
	var (
		b         strings.Builder
		args      []any
		positions = make(map[string]int)
		quote     byte
	)
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(query) && isNameStart(query[i+1]):
			j := i + 1
			for j < len(query) && isNameChar(query[j]) {
				j++
			}
			name := query[i+1 : j]
			v, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
			}
			if dialect == DialectPostgres {
				n, seen := positions[name]
				if !seen {
					args = append(args, v)
					n = len(args)
					positions[name] = n
				}
				fmt.Fprintf(&b, "$%d", n)
			} else {
				args = append(args, v)
				b.WriteByte('?')
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
