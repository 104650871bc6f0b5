package json

import (
	"io"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
)

// 本包对外收敛 JSON 编解码入口：
//   - 一次性编解码走 bytedance/sonic（热路径，零拷贝解码）。
//   - 流式 Encoder/Decoder 走 json-iterator 的 std 兼容配置。
//
// 调用方不应直接依赖 encoding/json 或具体实现，统一从这里导入。

var _jsoniter = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal 将任意对象编码为 JSON 字节序列。
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent 将任意对象编码为带缩进的 JSON 字节序列。
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal 将 JSON 字节序列解码到目标对象，v 通常为指针类型。
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Valid 报告 data 是否为合法的 JSON 文本。
func Valid(data []byte) bool {
	return sonic.Valid(data)
}

// NewEncoder 创建一个写入 w 的流式 JSON 编码器。
func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return _jsoniter.NewEncoder(w)
}

// NewDecoder 创建一个从 r 读取的流式 JSON 解码器。
func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return _jsoniter.NewDecoder(r)
}
