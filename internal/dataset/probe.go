package dataset

import (
	"context"
	"fmt"
)

// ProbeStatement is the cheapest statement every backend can answer.
var ProbeStatement = Statement{Name: "probe", Text: "SELECT 1 AS ok"}

// Probe checks that the dataset accepts queries.
func Probe(ctx context.Context, exec Executor) error {
	rows, err := exec.Query(ctx, ProbeStatement)
	if err != nil {
		return fmt.Errorf("dataset probe: %w", err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("dataset probe: expected 1 row, got %d", len(rows))
	}
	return nil
}
