package testhelpers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/grafana/gitobject/log"
	"github.com/onsi/ginkgo/v2"
)

var (
	debugColor = color.New(color.FgHiBlack)
	infoColor  = color.New(color.FgBlue)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// TestLogger implements log.Logger for Ginkgo suites. Output goes to the
// GinkgoWriter, so it is only shown for failing specs or with -v.
type TestLogger struct{}

var _ log.Logger = (*TestLogger)(nil)

// NewTestLogger creates a new TestLogger.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// Logf writes a plain line to the Ginkgo output.
func (l *TestLogger) Logf(format string, args ...any) {
	ginkgo.GinkgoWriter.Printf(format+"\n", args...)
}

func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log(debugColor, "DEBUG", msg, keysAndValues)
}

func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log(infoColor, "INFO", msg, keysAndValues)
}

func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log(warnColor, "WARN", msg, keysAndValues)
}

func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log(errorColor, "ERROR", msg, keysAndValues)
}

func (l *TestLogger) log(c *color.Color, level, msg string, args []any) {
	formatted := msg
	if len(args) > 0 {
		pairs := make([]string, 0, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			pairs = append(pairs, fmt.Sprintf("%v=%v", args[i], args[i+1]))
		}
		formatted = fmt.Sprintf("%s (%s)", msg, strings.Join(pairs, ", "))
	}

	ginkgo.GinkgoWriter.Println(c.Sprintf("[%s] %s", level, formatted))
}
