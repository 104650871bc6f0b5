package serde

import (
	"reflect"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

// validateInput 在进入重试循环之前校验解码输入。
// 空输入与超限输入都是终态参数错误，不会被重试。
func validateInput(data string, cfg *Config) error {
	if data == "" {
		return merr.WrapErrParameterMissing("input")
	}
	if int64(len(data)) > cfg.MaxInputLength {
		return merr.WrapErrParameterTooLarge(int64(len(data)), cfg.MaxInputLength)
	}
	return nil
}

// checkDepth 校验对象图的嵌套深度不超过 limit。
//
// 循环引用的对象图深度无界，同样会触发深度超限错误，
// 因此这里不需要额外的已访问集合。
func checkDepth(v any, limit int) error {
	depth, exceeded := measureDepth(reflect.ValueOf(v), 0, limit)
	if exceeded {
		return merr.WrapErrDepthExceeded(depth, limit)
	}
	return nil
}

func measureDepth(rv reflect.Value, depth, limit int) (int, bool) {
	if depth > limit {
		return depth, true
	}
	if !rv.IsValid() {
		return depth, false
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return depth, false
		}
		return measureDepth(rv.Elem(), depth, limit)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if d, exceeded := measureDepth(rv.Field(i), depth+1, limit); exceeded {
				return d, true
			}
		}
	case reflect.Slice, reflect.Array:
		if !isScalarKind(rv.Type().Elem().Kind()) {
			for i := 0; i < rv.Len(); i++ {
				if d, exceeded := measureDepth(rv.Index(i), depth+1, limit); exceeded {
					return d, true
				}
			}
		}
	case reflect.Map:
		for iter := rv.MapRange(); iter.Next(); {
			if d, exceeded := measureDepth(iter.Value(), depth+1, limit); exceeded {
				return d, true
			}
		}
	}
	return depth, false
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
