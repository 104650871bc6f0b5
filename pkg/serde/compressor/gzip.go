package compressor

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// GzipCompressor 基于 github.com/klauspost/compress/gzip 的压缩实现。
//
// gzip 属于 deflate 系编码，产物自带校验和，解压坏数据会得到明确错误
// 而不是静默输出垃圾内容。
type GzipCompressor struct {
	level int
}

// 编译期断言：确保 GzipCompressor 实现了 Compressor 接口。
var _ Compressor = (*GzipCompressor)(nil)

// NewGzipCompressor 创建一个使用默认压缩级别的 GzipCompressor。
func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{level: gzip.DefaultCompression}
}

// NewGzipCompressorWithLevel 创建一个指定压缩级别的 GzipCompressor。
// level 超出 gzip 支持范围时退回默认级别。
func NewGzipCompressorWithLevel(level int) *GzipCompressor {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &GzipCompressor{level: level}
}

// Compress 实现 Compressor 接口。
func (c *GzipCompressor) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, merr.WrapErrCompressFailed(err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, merr.WrapErrCompressFailed(err)
	}
	if err := w.Close(); err != nil {
		return nil, merr.WrapErrCompressFailed(err)
	}
	return buf.Bytes(), nil
}

// Decompress 实现 Compressor 接口。
func (c *GzipCompressor) Decompress(src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, merr.WrapErrDecompressFailed(err)
	}
	defer r.Close()

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, merr.WrapErrDecompressFailed(err)
	}
	return plain, nil
}

// Pack 将文本压缩并以 base64 字符串形式返回，保证产物可以嵌入任意文本载荷。
//
// 注意：历史实现对 JSON 载荷做过 base64(deflate(base64(raw))) 的双重编码，
// 这里统一收敛为单层 base64，新旧产物不兼容。
func (c *GzipCompressor) Pack(text string) (string, error) {
	packet, err := c.Compress([]byte(text))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packet), nil
}

// Unpack 是 Pack 的逆操作：base64 解码后解压，返回原始文本。
// 非法 base64 或损坏的压缩数据都会返回解压错误，调用方不应重试。
func (c *GzipCompressor) Unpack(encoded string) (string, error) {
	packet, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", merr.WrapErrDecompressFailed(err)
	}
	plain, err := c.Decompress(packet)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
