package introspect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type person struct {
	Name   string
	Age    int
	Active bool

	secret string //nolint:unused 不可导出字段应被忽略
}

func TestPropertiesOrderAndFilter(t *testing.T) {
	props := Properties(reflect.TypeOf(person{}))

	require.Len(t, props, 3)
	assert.Equal(t, "Name", props[0].Name)
	assert.Equal(t, "Age", props[1].Name)
	assert.Equal(t, "Active", props[2].Name)
	assert.Equal(t, reflect.TypeOf(""), props[0].Type)
	assert.Equal(t, reflect.TypeOf(0), props[1].Type)
}

func TestPropertiesPointerAndNonStruct(t *testing.T) {
	byValue := Properties(reflect.TypeOf(person{}))
	byPointer := Properties(reflect.TypeOf(&person{}))
	assert.Equal(t, byValue, byPointer)

	assert.Empty(t, Properties(reflect.TypeOf(42)))
	assert.Nil(t, PropertiesOf(nil))
}

func TestGetSet(t *testing.T) {
	p := person{Name: "alice", Age: 30, Active: true}
	props := PropertiesOf(p)

	assert.Equal(t, "alice", props[0].Get(p))
	assert.Equal(t, 30, props[1].Get(&p))

	var nilPerson *person
	assert.Nil(t, props[0].Get(nilPerson))

	props[1].Set(&p, 31)
	assert.Equal(t, 31, p.Age)
}

func TestConcurrentIntrospection(t *testing.T) {
	type fresh struct {
		A string
		B int
	}

	results := make([][]Property, 16)
	var eg errgroup.Group
	for i := 0; i < len(results); i++ {
		i := i
		eg.Go(func() error {
			results[i] = Properties(reflect.TypeOf(fresh{}))
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	// 所有调用方必须拿到同一份已发布的缓存结果，不允许出现重复条目。
	first := results[0]
	for _, got := range results[1:] {
		assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(got).Pointer())
	}
	require.Len(t, first, 2)
}
