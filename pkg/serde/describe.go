package serde

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lk2023060901/serde-garden-go/pkg/serde/csvcodec"
	"github.com/lk2023060901/serde-garden-go/pkg/serde/introspect"
)

// PropertyNames 返回对象按声明顺序排列的可导出属性名。
func PropertyNames(v any) []string {
	return lo.Map(introspect.PropertiesOf(v), func(p introspect.Property, _ int) string {
		return p.Name
	})
}

// Describe 将对象渲染为便于人读的 "name = value" 多行文本。
//
// 值的渲染规则与 CSV 编码共用一套：布尔小写、数值区域无关；差异在于
// nil 渲染为字面 null，字符串带双引号且内部引号成对转义。
// 配置了具体 Locale 时，数值按该区域的习惯格式渲染（仅用于诊断输出）。
func Describe(v any, cfg *Config) string {
	cfg = cfg.withDefaults()
	if v == nil {
		return "null"
	}

	var printer *message.Printer
	if cfg.Locale != language.Und {
		printer = message.NewPrinter(cfg.Locale)
	}

	props := introspect.PropertiesOf(v)
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, fmt.Sprintf("%s = %s", p.Name, describeValue(p.Get(v), printer)))
	}
	return strings.Join(lines, "\n")
}

func describeValue(v any, printer *message.Printer) string {
	if v == nil {
		return "null"
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return `"` + strings.ReplaceAll(rv.String(), `"`, `""`) + `"`
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if printer != nil {
			return printer.Sprintf("%v", rv.Interface())
		}
		return csvcodec.FormatValue(rv.Interface())
	default:
		return csvcodec.FormatValue(rv.Interface())
	}
}
