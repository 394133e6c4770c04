// Package tools exposes the weather operations as named tools with JSON
// arguments, the shape agent runtimes expect.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/gsod-weather/internal/observability"
	"github.com/i474232898/gsod-weather/internal/weather"
)

// ErrUnknownTool is returned by Invoke for unregistered names.
var ErrUnknownTool = errors.New("unknown tool")

// Field describes one tool argument.
type Field struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// Schema maps argument names to their descriptions.
type Schema map[string]Field

// Handler runs a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a named operation.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Schema      Schema  `json:"parameters"`
	Handler     Handler `json:"-"`
}

// Registry holds the registered tools.
type Registry struct {
	tools   map[string]Tool
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. metrics may be nil.
func NewRegistry(metrics *observability.Metrics, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:   make(map[string]Tool),
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds t. Names must be unique.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Handler == nil {
		return fmt.Errorf("tool %q: name and handler are required", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// List returns the tools sorted by name.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs the named tool with JSON arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return r.Observe(name, func() (any, error) {
		return t.Handler(ctx, args)
	})
}

// Observe runs fn, recording duration and outcome under the tool name.
func (r *Registry) Observe(name string, fn func() (any, error)) (any, error) {
	var timer *prometheus.Timer
	if r.metrics != nil {
		timer = prometheus.NewTimer(r.metrics.ToolDuration.WithLabelValues(name))
	}

	res, err := fn()

	if timer != nil {
		timer.ObserveDuration()
	}
	result := outcome(res, err)
	if r.metrics != nil {
		r.metrics.ToolCalls.WithLabelValues(name, result).Inc()
	}

	switch result {
	case "error":
		r.logger.Error("tool failed", "tool", name, "error", err)
	case "invalid":
		r.logger.Info("tool rejected request", "tool", name, "error", err)
	default:
		r.logger.Debug("tool completed", "tool", name, "outcome", result)
	}
	return res, err
}

func outcome(res any, err error) string {
	if err != nil {
		if weather.IsValidation(err) {
			return "invalid"
		}
		return "error"
	}
	found := true
	switch v := res.(type) {
	case weather.CityResolution:
		found = v.Found
	case weather.NearestResolution:
		found = v.Found
	case weather.RangeSummary:
		found = v.Found
	case weather.YearlyMax:
		found = v.Found
	}
	if !found {
		return "not_found"
	}
	return "found"
}

// decodeArgs strictly decodes JSON arguments into dst. Malformed arguments
// are a validation failure.
func decodeArgs(args json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &weather.ValidationError{Message: fmt.Sprintf("invalid arguments: %v", err)}
	}
	return nil
}
