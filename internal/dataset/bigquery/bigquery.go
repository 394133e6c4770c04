// Package bigquery runs dataset statements against the public NOAA GSOD
// dataset in BigQuery.
package bigquery

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/i474232898/gsod-weather/internal/dataset"
)

// Config selects the billing project and credentials.
type Config struct {
	ProjectID string
	// CredentialsFile is passed through to the client; empty means
	// application default credentials.
	CredentialsFile string
	Location        string
}

// Executor implements dataset.Executor with a BigQuery client.
type Executor struct {
	client   *bigquery.Client
	location string
}

// New creates a BigQuery client.
func New(ctx context.Context, cfg Config) (*Executor, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("bigquery: project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &Executor{client: client, location: cfg.Location}, nil
}

// Close closes the client.
func (e *Executor) Close() error {
	return e.client.Close()
}

// Query runs stmt as a standard SQL query job.
func (e *Executor) Query(ctx context.Context, stmt dataset.Statement) ([]dataset.Row, error) {
	q := e.client.Query(stmt.Text)
	q.Parameters = QueryParameters(stmt)
	if e.location != "" {
		q.Location = e.location
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery query %s: %w", stmt.Name, err)
	}

	var out []dataset.Row
	for {
		var values map[string]bigquery.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery read %s: %w", stmt.Name, err)
		}
		out = append(out, toRow(values))
	}
	return out, nil
}

// QueryParameters maps statement parameters to BigQuery named parameters.
// BigQuery infers STRING, DATE, INT64 and FLOAT64 from the Go value types
// string, civil.Date, int64 and float64.
func QueryParameters(stmt dataset.Statement) []bigquery.QueryParameter {
	names := stmt.ParamNames()
	params := make([]bigquery.QueryParameter, 0, len(names))
	for _, name := range names {
		params = append(params, bigquery.QueryParameter{
			Name:  name,
			Value: stmt.Params[name].Value,
		})
	}
	return params
}

func toRow(values map[string]bigquery.Value) dataset.Row {
	row := make(dataset.Row, len(values))
	for k, v := range values {
		if d, ok := v.(civil.Date); ok {
			row[k] = d.String()
			continue
		}
		row[k] = v
	}
	return row
}
