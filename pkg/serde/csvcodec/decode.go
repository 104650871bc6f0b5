package csvcodec

import (
	"context"
	"encoding/csv"
	"io"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/serde-garden-go/pkg/serde/introspect"
	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// Decode 将 CSV 文本解码到 out 指向的切片中，out 必须为 *[]T 且 T 为结构体。
//
// 无表头时按属性声明顺序做位置映射，逐字段转换到声明类型；
// 有表头时按表头名称映射，未知列名报错。
func Decode(text string, out any, opts Options) error {
	return DecodeReader(context.Background(), strings.NewReader(text), out, opts)
}

// DecodeReader 从 r 流式读取 CSV 记录并解码到 out，逐条记录检查取消信号。
//
// 若 opts.Compressor 非空，认为输入是压缩封包，先整体解包再解析。
func DecodeReader(ctx context.Context, r io.Reader, out any, opts Options) error {
	opts = opts.withDefaults()

	if opts.Compressor != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return merr.WrapErrIoFailed("csv", err)
		}
		plain, err := opts.Compressor.Unpack(strings.TrimSpace(string(data)))
		if err != nil {
			return err
		}
		r = strings.NewReader(plain)
	}

	slicePtr := reflect.ValueOf(out)
	if slicePtr.Kind() != reflect.Pointer || slicePtr.Elem().Kind() != reflect.Slice {
		return merr.WrapErrParameterInvalidMsg("out must be a pointer to slice, got %T", out)
	}
	sliceVal := slicePtr.Elem()
	elemType := sliceVal.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return merr.WrapErrTypeUnsupported(elemType.String(), "csv decode target")
	}

	props := introspect.Properties(elemType)

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1

	// 有表头时按名称映射列；columns[i] 指向第 i 列对应的属性。
	columns := props
	if opts.Header {
		header, err := reader.Read()
		if err == io.EOF {
			return merr.WrapErrDecodeFailed("csv", err, "missing header line")
		}
		if err != nil {
			return classifyReadErr(err)
		}
		columns = make([]introspect.Property, len(header))
		byName := make(map[string]introspect.Property, len(props))
		for _, p := range props {
			byName[p.Name] = p
		}
		for i, name := range header {
			p, ok := byName[strings.TrimSpace(name)]
			if !ok {
				return merr.WrapErrHeaderUnknown(name)
			}
			columns[i] = p
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return classifyReadErr(err)
		}

		// 记录宽度必须与列映射（无表头时即属性列表）一致。
		if len(record) != len(columns) {
			return merr.WrapErrFieldCount(len(columns), len(record))
		}

		target := reflect.New(elemType)
		for i, field := range record {
			if err := setField(target.Interface(), columns[i], field); err != nil {
				return err
			}
		}
		sliceVal.Set(reflect.Append(sliceVal, target.Elem()))
	}

	return nil
}

func setField(target any, prop introspect.Property, raw string) error {
	val, err := ParseValue(raw, prop.Type)
	if err != nil {
		return merr.WrapErrFieldConvert(prop.Name, raw, prop.Type.String(), err)
	}

	if prop.Type.Kind() == reflect.Pointer {
		// 空字段保持 nil 指针，与编码侧的空值渲染对称。
		if raw == "" {
			return nil
		}
		pv := reflect.New(prop.Type.Elem())
		pv.Elem().Set(reflect.ValueOf(val).Convert(prop.Type.Elem()))
		prop.Set(target, pv.Interface())
		return nil
	}

	prop.Set(target, val)
	return nil
}

// classifyReadErr 区分结构性解析错误与底层读取错误：
// 前者不可重试，后者可能由瞬时原因导致，标记为 IO 错误交给重试层。
func classifyReadErr(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return merr.WrapErrDecodeFailed("csv", err)
	}
	return merr.WrapErrIoFailed("csv", err)
}
