package serde

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// MarshalXML 将对象同步编码为 XML 文本。
//
// XML 路径不走重试与压缩封包；可通过配置自定义根元素名与命名空间声明。
func MarshalXML(v any, cfg *Config) (out string, err error) {
	cfg = cfg.withDefaults()
	defer observe("xml", stageEncode, time.Now())
	defer func() { recordResult("xml", stageEncode, err) }()

	if v == nil {
		return "", merr.WrapErrParameterMissing("value")
	}
	if derr := checkDepth(v, cfg.MaxDepth); derr != nil {
		return "", derr
	}

	if cfg.XMLRootName == "" && cfg.XMLNamespace == "" {
		data, xerr := xml.Marshal(v)
		if xerr != nil {
			return "", merr.WrapErrEncodeFailed("xml", xerr, "serialize to xml failed")
		}
		return string(data), nil
	}

	start := xml.StartElement{Name: xml.Name{Local: cfg.XMLRootName}}
	if start.Name.Local == "" {
		start.Name.Local = "root"
	}
	if cfg.XMLNamespace != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "xmlns"},
			Value: cfg.XMLNamespace,
		})
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if eerr := enc.EncodeElement(v, start); eerr != nil {
		return "", merr.WrapErrEncodeFailed("xml", eerr, "serialize to xml failed")
	}
	if ferr := enc.Flush(); ferr != nil {
		return "", merr.WrapErrEncodeFailed("xml", ferr, "serialize to xml failed")
	}
	return buf.String(), nil
}

// UnmarshalXML 将 XML 文本同步解码为 T。
// 解码按元素名匹配字段，自定义根元素名不影响解码结果；
// 解码路径不使用任何配置项，cfg 仅为与编码侧对称保留。
func UnmarshalXML[T any](data string, _ *Config) (out T, err error) {
	defer observe("xml", stageDecode, time.Now())
	defer func() { recordResult("xml", stageDecode, err) }()

	if data == "" {
		return out, merr.WrapErrParameterMissing("input")
	}

	if uerr := xml.Unmarshal([]byte(data), &out); uerr != nil {
		return out, merr.WrapErrDecodeFailed("xml", uerr, "deserialize from xml failed")
	}
	return out, nil
}
