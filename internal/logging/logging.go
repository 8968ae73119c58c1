// Package logging builds the zap logger used for --debug diagnostics.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger named "huh" at debug level writing to w when
// debug is set, and a no-op logger otherwise.
func New(debug bool, w io.Writer) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.ConsoleSeparator = " | "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zap.DebugLevel),
	)
	return zap.New(core).Named("huh")
}
