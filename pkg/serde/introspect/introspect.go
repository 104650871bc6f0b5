package introspect

import (
	"reflect"
	"sync"
)

// Property 描述一个可导出的结构体字段：名称、声明类型与访问路径。
//
// Getter/Setter 通过 reflect 的字段下标实现，Property 创建后不可变，
// 可以被任意多个 goroutine 并发使用。
type Property struct {
	Name  string
	Type  reflect.Type
	index []int
}

// Get 返回 v 中该属性的当前值。
// v 可以为结构体或结构体指针；指针为 nil 时返回 nil。
func (p Property) Get(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	fv := rv.FieldByIndex(p.index)
	if !fv.IsValid() {
		return nil
	}
	return fv.Interface()
}

// Set 将 value 写入 target 中该属性对应的字段。
// target 必须为结构体指针，value 的类型需与字段声明类型可赋值兼容。
func (p Property) Set(target any, value any) {
	rv := reflect.ValueOf(target)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	fv := rv.FieldByIndex(p.index)
	fv.Set(reflect.ValueOf(value).Convert(p.Type))
}

// 类型 -> []Property 的进程级缓存。
// 只增不删，首个完成计算并发布的结果胜出（LoadOrStore），并发竞争是无害的。
var propertyCache sync.Map // reflect.Type -> []Property

// Properties 返回给定类型按声明顺序排列的可导出字段描述。
//
// 同一类型的首次调用触发一次反射扫描并缓存结果，后续调用直接命中缓存。
// 指针类型会被解引用到底层结构体类型；非结构体类型返回空切片。
func Properties(t reflect.Type) []Property {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := propertyCache.Load(t); ok {
		return cached.([]Property)
	}

	props := reflectProperties(t)
	actual, _ := propertyCache.LoadOrStore(t, props)
	return actual.([]Property)
}

// PropertiesOf 返回 v 的动态类型对应的字段描述。
func PropertiesOf(v any) []Property {
	if v == nil {
		return nil
	}
	return Properties(reflect.TypeOf(v))
}

func reflectProperties(t reflect.Type) []Property {
	if t.Kind() != reflect.Struct {
		return []Property{}
	}

	props := make([]Property, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		props = append(props, Property{
			Name:  field.Name,
			Type:  field.Type,
			index: field.Index,
		})
	}
	return props
}
