package output

import (
	"io"

	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/health"
	"github.com/hal/pulse/internal/snapshot"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatHealth(r health.Report, w io.Writer) error
	FormatVelocity(t commits.Trend, w io.Writer) error
	FormatTrend(d snapshot.Delta, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
