// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	_globalL atomic.Value // *zap.Logger
	_globalS atomic.Value // *zap.SugaredLogger
)

type ctxLogKeyType struct{}

// CtxLogKey 是 context 中存放 Logger 的键。
var CtxLogKey = ctxLogKeyType{}

func init() {
	l := newStdLogger()
	_globalL.Store(l)
	_globalS.Store(l.Sugar())
}

// newStdLogger 创建一个输出到 stdout 的默认 Logger，供 Init 之前使用。
func newStdLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zapcore.InfoLevel,
	)
	return zap.New(core, zap.AddCaller())
}

// Init 按给定配置初始化全局 Logger。
// 支持同时输出到 stdout 与按大小滚动的日志文件（lumberjack）。
func Init(cfg *Config) error {
	c := cfg.withDefaults()

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if c.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var syncers []zapcore.WriteSyncer
	if c.Stdout {
		syncers = append(syncers, zapcore.Lock(os.Stdout))
	}
	if c.File.Filename != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File.Filename,
			MaxSize:    c.File.MaxSize,
			MaxAge:     c.File.MaxDays,
			MaxBackups: c.File.MaxBackups,
		}))
	}
	if len(syncers) == 0 {
		syncers = append(syncers, zapcore.Lock(os.Stdout))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncers...), level)

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if !c.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}

	ReplaceGlobals(zap.New(core, opts...))
	return nil
}

// ReplaceGlobals 替换全局 Logger。
func ReplaceGlobals(l *zap.Logger) {
	_globalL.Store(l)
	_globalS.Store(l.Sugar())
}

// L 返回全局 Logger。
func L() *zap.Logger {
	return _globalL.Load().(*zap.Logger)
}

// S 返回全局 SugaredLogger。
func S() *zap.SugaredLogger {
	return _globalS.Load().(*zap.SugaredLogger)
}

// With 创建一个携带额外字段的子 Logger。
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Ctx 返回 context 中携带的 Logger；没有时退回全局 Logger。
func Ctx(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(CtxLogKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}

// WithFields 返回一个新 context，其携带的 Logger 附加了给定字段。
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, CtxLogKey, Ctx(ctx).With(fields...))
}

// Debug 在 Debug 级别输出一条日志。
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info 在 Info 级别输出一条日志。
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn 在 Warn 级别输出一条日志。
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error 在 Error 级别输出一条日志。
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}
