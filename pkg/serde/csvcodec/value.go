package csvcodec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// FormatValue 将单个属性值渲染为 CSV 字段文本。
//
// 渲染规则：
//   - nil（含 nil 指针）渲染为空字符串；
//   - 布尔值固定渲染为小写 true/false；
//   - 数值使用 locale 无关的文本形式（strconv）；
//   - time.Time 使用 RFC 3339；
//   - 其余类型退回 fmt 的默认格式。
//
// 字段级的引号转义由 encoding/csv 的 Writer 负责，这里只产出裸值。
func FormatValue(v any) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}

	if t, ok := rv.Interface().(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", rv.Interface())
	}
}

// ParseValue 将 CSV 字段文本转换为目标类型的值。
//
// 空字符串对非字符串类型一律解析为零值（与 FormatValue 的空值渲染对称）。
// 不支持的目标类型返回 ErrTypeUnsupported。
func ParseValue(s string, t reflect.Type) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == reflect.TypeOf(time.Time{}) {
		if s == "" {
			return time.Time{}, nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}

	switch t.Kind() {
	case reflect.String:
		return s, nil
	case reflect.Bool:
		if s == "" {
			return false, nil
		}
		return strconv.ParseBool(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return reflect.Zero(t).Interface(), nil
		}
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return reflect.Zero(t).Interface(), nil
		}
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return reflect.Zero(t).Interface(), nil
		}
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	default:
		return nil, merr.WrapErrTypeUnsupported(t.String())
	}
}
