package serde

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/serde-garden-go/internal/json"
	"github.com/lk2023060901/serde-garden-go/pkg/log"
	"github.com/lk2023060901/serde-garden-go/pkg/serde/compressor"
	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
	"github.com/lk2023060901/serde-garden-go/pkg/util/retry"
)

// MarshalJSON 将对象同步编码为 JSON 文本，使用默认配置。
func MarshalJSON(v any) (string, error) {
	return MarshalJSONWithConfig(v, nil)
}

// MarshalJSONWithConfig 将对象同步编码为 JSON 文本。
// 开启压缩时产物为 base64(gzip(json)) 的可打印字符串。
func MarshalJSONWithConfig(v any, cfg *Config) (string, error) {
	cfg = cfg.withDefaults()
	defer observe("json", stageEncode, time.Now())

	if v == nil {
		return "", merr.WrapErrParameterMissing("value")
	}
	if err := checkDepth(v, cfg.MaxDepth); err != nil {
		return "", err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", merr.WrapErrEncodeFailed("json", err, "serialize to json failed")
	}

	out := string(data)
	if cfg.EnableCompression {
		out, err = compressor.NewGzipCompressor().Pack(out)
		if err != nil {
			return "", err
		}
	}
	recordPayload("json", stageEncode, len(out))
	return out, nil
}

// UnmarshalJSON 将 JSON 文本同步解码为 T。
func UnmarshalJSON[T any](data string, cfg *Config) (T, error) {
	var out T
	cfg = cfg.withDefaults()
	defer observe("json", stageDecode, time.Now())

	if data == "" {
		return out, merr.WrapErrParameterMissing("input")
	}

	text := data
	if cfg.EnableCompression {
		plain, err := compressor.NewGzipCompressor().Unpack(data)
		if err != nil {
			return out, err
		}
		text = plain
	}

	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, merr.WrapErrDecodeFailed("json", err, "deserialize from json failed")
	}
	return out, nil
}

// MarshalJSONStream 将对象编码为 JSON 并流式写入 w，适合大对象直写文件或网络。
// 流式路径不做压缩封包。
func MarshalJSONStream(v any, w io.Writer, cfg *Config) error {
	cfg = cfg.withDefaults()

	if v == nil {
		return merr.WrapErrParameterMissing("value")
	}
	if err := checkDepth(v, cfg.MaxDepth); err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return merr.WrapErrEncodeFailed("json", err, "serialize to json stream failed")
	}
	return nil
}

// UnmarshalJSONStream 从 r 流式解码 JSON。
func UnmarshalJSONStream[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, merr.WrapErrDecodeFailed("json", err, "deserialize from json stream failed")
	}
	return out, nil
}

// MarshalJSONCtx 为带重试的异步编码变体。
//
// 失败分类交给重试层：结构性编码错误立即终止，瞬时错误按线性退避重试。
func MarshalJSONCtx(ctx context.Context, v any, cfg *Config) (string, error) {
	cfg = cfg.withDefaults()

	ctx, cancel := withAdvisoryTimeout(ctx, cfg)
	defer cancel()

	var out string
	err := retry.Do(ctx, func() error {
		s, err := MarshalJSONWithConfig(v, cfg)
		if err != nil {
			return err
		}
		out = s
		return nil
	}, retry.MaxRetries(cfg.MaxRetries), retry.Delay(cfg.RetryDelay))
	if err != nil {
		log.Ctx(ctx).Warn("marshal json failed", zap.Error(err))
		return "", err
	}
	return out, nil
}

// UnmarshalJSONCtx 为带重试的异步解码变体。
// 空输入与超限输入在进入重试循环之前即被拒绝。
func UnmarshalJSONCtx[T any](ctx context.Context, data string, cfg *Config) (T, error) {
	var out T
	cfg = cfg.withDefaults()

	if err := validateInput(data, cfg); err != nil {
		return out, err
	}

	ctx, cancel := withAdvisoryTimeout(ctx, cfg)
	defer cancel()

	err := retry.Do(ctx, func() error {
		decoded, err := UnmarshalJSON[T](data, cfg)
		if err != nil {
			return err
		}
		out = decoded
		return nil
	}, retry.MaxRetries(cfg.MaxRetries), retry.Delay(cfg.RetryDelay))
	if err != nil {
		log.Ctx(ctx).Warn("unmarshal json failed", zap.Error(err))
		return out, err
	}
	return out, nil
}

// withAdvisoryTimeout 在 ctx 自身没有 deadline 时套用配置中的名义超时。
func withAdvisoryTimeout(ctx context.Context, cfg *Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}
