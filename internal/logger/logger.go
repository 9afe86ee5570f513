package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// File receives log output. The terminal UI owns stdout, so logs go to a
	// file unless "stderr" or "stdout" is given.
	File  string
	Level string
}

func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		var err error
		level, err = zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return nil, err
		}
	}

	out := opts.File
	if out == "" {
		out = "tictactoe.log"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

type loggerContextKey string

const contextKeyValue loggerContextKey = "context-logger"

func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKeyValue, l)
}

func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(contextKeyValue).(*zap.Logger); ok {
		return l
	}

	return zap.NewNop()
}
