package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// osExit is a test seam for Fatalf.
var osExit = os.Exit

// PrintfLogger adapts a Logger to the Printf/Fatalf shape that goose and
// other log-package style libraries expect. Printf output goes out at debug
// level, so routine library chatter respects the configured level.
type PrintfLogger struct {
	l Logger
}

func NewPrintfLogger(l Logger) *PrintfLogger {
	return &PrintfLogger{l: l}
}

func (p *PrintfLogger) Printf(format string, v ...any) {
	p.l.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (p *PrintfLogger) Fatalf(format string, v ...any) {
	p.l.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	osExit(1)
}
