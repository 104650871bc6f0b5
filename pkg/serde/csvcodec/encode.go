package csvcodec

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"

	"github.com/samber/lo"

	"github.com/lk2023060901/serde-garden-go/pkg/serde/compressor"
	"github.com/lk2023060901/serde-garden-go/pkg/serde/introspect"
	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

const (
	DefaultDelimiter = ','
	DefaultBatchSize = 1000
)

// Options 控制 CSV 编解码行为。
type Options struct {
	// Delimiter 为字段分隔符，零值时使用英文逗号。
	Delimiter rune
	// Header 表示是否写入/读取表头行。
	Header bool
	// BatchSize 为批量编码时每批处理的记录数，零值时为 1000。
	BatchSize int
	// Compressor 非空且调用批量接口时，对最终产物做压缩封包。
	Compressor *compressor.GzipCompressor
}

func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// EncodeLine 将单个对象编码为一行不带表头的分隔文本（无行尾换行符）。
func EncodeLine(v any, opts Options) (string, error) {
	if v == nil {
		return "", merr.WrapErrParameterMissing("value")
	}
	opts = opts.withDefaults()

	props := introspect.PropertiesOf(v)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = opts.Delimiter

	if err := w.Write(recordOf(v, props)); err != nil {
		return "", merr.WrapErrEncodeFailed("csv", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", merr.WrapErrEncodeFailed("csv", err)
	}
	return trimRecordEnd(buf.String()), nil
}

// Encode 将对象或集合编码为 CSV 文本。
//
// 输入规整规则：
//   - 单个对象按单元素集合处理；
//   - []T 直接使用元素类型 T；
//   - []any 等无类型集合通过首个非 nil 元素推断元素类型，
//     空集合或全 nil 集合无法推断（见 resolveElementType）。
func Encode(v any, opts Options) (string, error) {
	return EncodeBatched(context.Background(), v, opts)
}

// EncodeBatched 以固定批大小写出集合，支持取消，产物与一次性编码逐字节一致。
//
// 表头只写一次；每条记录写出前检查一次 ctx；整个源耗尽后，若配置了
// Compressor 则对完整产物做压缩封包并返回封包后的字符串。
func EncodeBatched(ctx context.Context, v any, opts Options) (string, error) {
	if v == nil {
		return "", merr.WrapErrParameterMissing("value")
	}
	opts = opts.withDefaults()

	items, elemType, err := normalize(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = opts.Delimiter

	var props []introspect.Property
	if elemType != nil {
		props = introspect.Properties(elemType)
	}

	if opts.Header {
		if elemType == nil {
			return "", merr.WrapErrElementUnknown("header requested but element type is unknown")
		}
		header := lo.Map(props, func(p introspect.Property, _ int) string { return p.Name })
		if err := w.Write(header); err != nil {
			return "", merr.WrapErrEncodeFailed("csv", err)
		}
	}

	// 批处理循环：每次最多取 BatchSize 条；取空即终止。
	for start := 0; start < len(items); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(items) {
			end = len(items)
		}
		for _, item := range items[start:end] {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if err := w.Write(recordOf(item, props)); err != nil {
				return "", merr.WrapErrEncodeFailed("csv", err)
			}
		}
		w.Flush()
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", merr.WrapErrEncodeFailed("csv", err)
	}

	out := buf.String()
	if opts.Compressor != nil {
		packed, err := opts.Compressor.Pack(out)
		if err != nil {
			return "", err
		}
		out = packed
	}
	return out, nil
}

// normalize 把任意输入规整为元素切片和已解析的元素类型。
// 元素类型无法解析（空集合或全 nil）时返回 nil 类型，由调用方决定如何处理。
func normalize(v any) ([]any, reflect.Type, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, merr.WrapErrParameterMissing("value")
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		// 单个对象：包装为单元素序列后走集合路径。
		return []any{rv.Interface()}, rv.Type(), nil
	}

	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}

	elemType := rv.Type().Elem()
	if elemType.Kind() == reflect.Interface {
		resolved := resolveElementType(items)
		if resolved != nil {
			// 采样只看首个非 nil 元素，其余元素必须是同一类型；
			// 混型集合按属性下标取值会命中错误的字段甚至越界。
			for _, item := range items {
				if item == nil {
					continue
				}
				t := reflect.TypeOf(item)
				for t.Kind() == reflect.Pointer {
					t = t.Elem()
				}
				if t != resolved {
					return nil, nil, merr.WrapErrTypeUnsupported(t.String(),
						"collection mixes element types, expected "+resolved.String())
				}
			}
		}
		return items, resolved, nil
	}
	for elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}
	return items, elemType, nil
}

// resolveElementType 通过采样首个非 nil 元素确定无类型集合的元素类型。
// 空集合或全 nil 集合返回 nil。
func resolveElementType(items []any) reflect.Type {
	for _, item := range items {
		if item == nil {
			continue
		}
		t := reflect.TypeOf(item)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		return t
	}
	return nil
}

// recordOf 将一个元素渲染为一条 CSV 记录。
// nil 元素渲染为与属性数量等宽的空字段记录。
func recordOf(item any, props []introspect.Property) []string {
	record := make([]string, len(props))
	if item == nil || isNilPointer(item) {
		return record
	}
	for i, p := range props {
		record[i] = FormatValue(p.Get(item))
	}
	return record
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// trimRecordEnd 去掉 csv.Writer 追加的行终止符。
func trimRecordEnd(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
