package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Sub-second timestamps matter here:
// packing a large manifest runs in tens of milliseconds and whole
// seconds would log identical times for every stage.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress stamps the start of an operation and reports its duration
// on completion. Single goroutine use only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time appended,
// e.g. "Packed 782 placements (12ms)".
func (p *progress) done(format string, args ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Infof(format+" (%s)", append(args, elapsed)...)
}
