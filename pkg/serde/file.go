package serde

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// writeTextFile 将文本以 UTF-8 写入指定路径，父目录不存在时自动创建。
// 不保证写入的原子性：进程中途崩溃可能留下截断文件。
func writeTextFile(path, text string) error {
	if path == "" {
		return merr.WrapErrParameterMissing("path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return merr.WrapErrIoFailed(path, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return merr.WrapErrIoFailed(path, err)
	}
	return nil
}

// MarshalJSONToFile 将对象编码为 JSON 并写入文件。
func MarshalJSONToFile(ctx context.Context, v any, path string, cfg *Config) error {
	out, err := MarshalJSONCtx(ctx, v, cfg)
	if err != nil {
		return err
	}
	return writeTextFile(path, out)
}

// MarshalXMLToFile 将对象编码为 XML 并写入文件。
func MarshalXMLToFile(v any, path string, cfg *Config) error {
	out, err := MarshalXML(v, cfg)
	if err != nil {
		return err
	}
	return writeTextFile(path, out)
}

// MarshalCSVToFile 将对象或集合编码为 CSV 并写入文件。
func MarshalCSVToFile(ctx context.Context, v any, path string, cfg *Config) error {
	out, err := MarshalCSVCtx(ctx, v, cfg)
	if err != nil {
		return err
	}
	return writeTextFile(path, out)
}
