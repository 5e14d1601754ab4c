// Package logger builds the process-wide zap logger: JSON encoding in
// production, a console encoder when KONF_ENV=dev, teed through
// lumberjack for on-disk rotation under <root>/log. Render-time warnings
// (lookup miss, function error, unparseable file skipped) are logged at
// Warn by their callers; reload/authorize/render lifecycle events at
// Debug/Info; hard failures at Error.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a *zap.Logger that writes entries (JSON-encoded, or
// console-encoded when KONF_ENV=dev) to a rotating file under
// <rootDir>/log/konf.log, additionally teeing to stdout when
// tee is true (interactive/dev use). Replaces zap's global loggers
// (zap.L(), zap.S()) so callers anywhere in the process can use the
// sugared API without threading a logger through every constructor.
func New(rootDir string, tee bool) (*zap.Logger, error) {
	rotator := &lumberjack.Logger{
		Filename:   rootDir + "/log/konf.log",
		MaxSize:    100, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if os.Getenv("KONF_ENV") == "dev" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(devCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if os.Getenv("KONF_ENV") == "dev" {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	var ws zapcore.WriteSyncer = zapcore.AddSync(rotator)
	if tee {
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(encoder, ws, level)
	l := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(l)

	l.Info("logger online", zap.Bool("tee", tee))
	return l, nil
}
