package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBold   = "\x1b[1m"
)

// Reporter writes diagnostics to a stream, with colors when the
// stream is a terminal.
type Reporter struct {
	out       io.Writer
	useColors bool
}

func NewReporter(out io.Writer) *Reporter {
	r := &Reporter{out: out}
	if f, ok := out.(*os.File); ok {
		r.useColors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return r
}

// SetColors overrides terminal autodetection.
func (r *Reporter) SetColors(on bool) {
	r.useColors = on
}

// Report prints diagnostics sorted by file, line and column.
// It returns the number of error-severity diagnostics printed.
func (r *Reporter) Report(diags []*DiagnosticError) int {
	sorted := make([]*DiagnosticError, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		return a.Token.Column < b.Token.Column
	})

	errorCount := 0
	for _, d := range sorted {
		if d.Severity == SeverityError {
			errorCount++
		}
		if r.useColors {
			color := colorRed
			if d.Severity == SeverityWarning {
				color = colorYellow
			}
			fmt.Fprintf(r.out, "%s%s%s%s\n", colorBold, color, d.Error(), colorReset)
		} else {
			fmt.Fprintf(r.out, "%s\n", d.Error())
		}
	}
	return errorCount
}
