// Package dataset defines the contract between the query layer and the tabular
// store holding GSOD observations, plus decorators shared by every backend.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ParamType is the declared type of a bind parameter.
type ParamType string

const (
	String  ParamType = "STRING"
	Date    ParamType = "DATE"
	Int64   ParamType = "INT64"
	Float64 ParamType = "FLOAT64"
)

// Param is a typed bind parameter. Value holds a string, civil.Date, int64 or
// float64 depending on Type.
type Param struct {
	Type  ParamType
	Value any
}

// Statement is a query template with named (@name) bind parameters.
type Statement struct {
	// Name labels the statement in logs and metrics, e.g. "range_summary".
	Name   string
	Text   string
	Params map[string]Param
}

// ParamNames returns the parameter names in sorted order.
func (s Statement) ParamNames() []string {
	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Row is a single result row keyed by column name. Backends normalise DATE
// columns to "YYYY-MM-DD" strings.
type Row map[string]any

// Executor runs a statement against the dataset and returns every row.
type Executor interface {
	Query(ctx context.Context, stmt Statement) ([]Row, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, stmt Statement) ([]Row, error)

// Query calls f(ctx, stmt).
func (f ExecutorFunc) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	return f(ctx, stmt)
}

// ErrColumnType is returned when a column holds a value of an unexpected type.
var ErrColumnType = errors.New("unexpected column type")

// Float returns the named column as a float64 pointer; nil for NULL or a
// missing column.
func (r Row) Float(col string) (*float64, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return nil, nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case int:
		f = float64(t)
	case []byte:
		return parseFloat(col, string(t))
	case string:
		return parseFloat(col, t)
	default:
		return nil, fmt.Errorf("%w: column %s is %T", ErrColumnType, col, v)
	}
	return &f, nil
}

// Int returns the named column as an int64; NULL reads as zero.
func (r Row) Int(col string) (int64, error) {
	switch t := r[col].(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("%w: column %s is %T", ErrColumnType, col, t)
	}
}

// String returns the named column as a string; NULL reads as "".
func (r Row) String(col string) (string, error) {
	switch t := r[col].(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case time.Time:
		return t.Format(time.DateOnly), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%w: column %s is %T", ErrColumnType, col, t)
	}
}

// parseFloat handles numeric columns that arrive as text; an empty string is NULL.
func parseFloat(col, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: column %s: %v", ErrColumnType, col, err)
	}
	return &f, nil
}
