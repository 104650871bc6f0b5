package serde

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/serde-garden-go/pkg/log"
	"github.com/lk2023060901/serde-garden-go/pkg/serde/compressor"
	"github.com/lk2023060901/serde-garden-go/pkg/serde/csvcodec"
	"github.com/lk2023060901/serde-garden-go/pkg/util/retry"
)

// csvOptions 将调用配置映射为 CSV 编解码选项。
func csvOptions(cfg *Config) csvcodec.Options {
	opts := csvcodec.Options{
		Delimiter: cfg.Delimiter,
		Header:    cfg.IncludeHeader,
		BatchSize: cfg.BatchSize,
	}
	if cfg.EnableCompression {
		opts.Compressor = compressor.NewGzipCompressor()
	}
	return opts
}

// MarshalCSVLine 将单个对象编码为一行分隔文本（无表头、无行尾换行符）。
func MarshalCSVLine(v any, cfg *Config) (string, error) {
	return csvcodec.EncodeLine(v, csvOptions(cfg.withDefaults()))
}

// MarshalCSV 将对象或集合同步编码为 CSV 文本。
// 开启压缩时与异步路径一致，对产物做 gzip+base64 封包。
func MarshalCSV(v any, cfg *Config) (out string, err error) {
	cfg = cfg.withDefaults()
	defer observe("csv", stageEncode, time.Now())
	defer func() { recordResult("csv", stageEncode, err) }()

	out, err = csvcodec.Encode(v, csvOptions(cfg))
	if err == nil {
		recordPayload("csv", stageEncode, len(out))
	}
	return out, err
}

// MarshalCSVCtx 为带重试与批处理的异步编码变体。
//
// 源集合按 BatchSize 分批写出，批间与逐条记录处都会响应取消；
// 开启压缩时对最终产物做 gzip+base64 封包。
func MarshalCSVCtx(ctx context.Context, v any, cfg *Config) (string, error) {
	cfg = cfg.withDefaults()

	ctx, cancel := withAdvisoryTimeout(ctx, cfg)
	defer cancel()

	var out string
	err := retry.Do(ctx, func() error {
		defer observe("csv", stageEncode, time.Now())
		s, err := csvcodec.EncodeBatched(ctx, v, csvOptions(cfg))
		if err != nil {
			return err
		}
		out = s
		return nil
	}, retry.MaxRetries(cfg.MaxRetries), retry.Delay(cfg.RetryDelay))
	if err != nil {
		log.Ctx(ctx).Warn("marshal csv failed", zap.Error(err))
		return "", err
	}
	recordPayload("csv", stageEncode, len(out))
	return out, nil
}

// UnmarshalCSV 将 CSV 文本同步解码为 []T。
// cfg.IncludeHeader 决定首行按表头名称映射还是整体按位置映射。
func UnmarshalCSV[T any](data string, cfg *Config) (out []T, err error) {
	cfg = cfg.withDefaults()
	defer observe("csv", stageDecode, time.Now())
	defer func() { recordResult("csv", stageDecode, err) }()

	err = csvcodec.Decode(data, &out, csvOptions(cfg))
	return out, err
}

// UnmarshalCSVCtx 为带重试的异步解码变体。
//
// 空输入与超限输入在进入重试循环之前即被拒绝；编码时启用了压缩的输入
// 会先整体解包再流式解析，逐条记录响应取消。
func UnmarshalCSVCtx[T any](ctx context.Context, data string, cfg *Config) ([]T, error) {
	cfg = cfg.withDefaults()

	if err := validateInput(data, cfg); err != nil {
		return nil, err
	}

	ctx, cancel := withAdvisoryTimeout(ctx, cfg)
	defer cancel()

	var out []T
	err := retry.Do(ctx, func() error {
		defer observe("csv", stageDecode, time.Now())
		var decoded []T
		if err := csvcodec.DecodeReader(ctx, strings.NewReader(data), &decoded, csvOptions(cfg)); err != nil {
			return err
		}
		out = decoded
		return nil
	}, retry.MaxRetries(cfg.MaxRetries), retry.Delay(cfg.RetryDelay))
	if err != nil {
		log.Ctx(ctx).Warn("unmarshal csv failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}
