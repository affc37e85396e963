package output

import (
	"encoding/json"
	"io"

	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/health"
	"github.com/hal/pulse/internal/snapshot"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatHealth outputs a health report as JSON
func (f *JSONFormatter) FormatHealth(r health.Report, w io.Writer) error {
	return f.encode(r, w)
}

// FormatVelocity outputs a velocity trend as JSON
func (f *JSONFormatter) FormatVelocity(t commits.Trend, w io.Writer) error {
	return f.encode(t, w)
}

// FormatTrend outputs a snapshot delta as JSON
func (f *JSONFormatter) FormatTrend(d snapshot.Delta, w io.Writer) error {
	return f.encode(d, w)
}
