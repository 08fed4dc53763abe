// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/heronet/internal/analytics"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Reporter writes network statistics to an output.
type Reporter interface {
	// Write renders one summary.
	Write(summary analytics.Summary) error
	// Close releases the underlying output. Closing a reporter on stdout is a no-op.
	Close() error
}

type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format writing to outputPath, or to stdout when
// outputPath is empty or "stdout".
func New(format, outputPath string) (Reporter, error) {
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}
	return newReporter(format, writer), nil
}

// NewWriter creates a reporter on an existing writer. The writer is never closed.
func NewWriter(format string, w io.Writer) (Reporter, error) {
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return newReporter(format, &nopWriteCloser{w}), nil
}

func newReporter(format string, w io.WriteCloser) Reporter {
	if format == FormatJSON {
		return &jsonReporter{w: w}
	}
	return &textReporter{w: w}
}

type jsonReporter struct {
	w io.WriteCloser
}

func (r *jsonReporter) Write(summary analytics.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error { return r.w.Close() }
