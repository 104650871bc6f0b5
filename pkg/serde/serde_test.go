package serde

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

type employee struct {
	Name   string
	Age    int
	Active bool
	Salary float64
}

type nested struct {
	Child *nested
	Label string
}

func TestJSONRoundTrip(t *testing.T) {
	in := employee{Name: "Smith, John", Age: 41, Active: true, Salary: 88000.5}

	payload, err := MarshalJSON(in)
	require.NoError(t, err)

	out, err := UnmarshalJSON[employee](payload, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONCompressedRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableCompression = true

	in := []employee{{Name: "压缩", Age: 1}, {Name: "往返", Age: 2}}
	payload, err := MarshalJSONWithConfig(in, cfg)
	require.NoError(t, err)
	// 封包产物应当是可打印字符串，而不是原始 JSON。
	assert.False(t, strings.HasPrefix(payload, "["))

	out, err := UnmarshalJSON[[]employee](payload, cfg)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONStreamRoundTrip(t *testing.T) {
	in := employee{Name: "流式", Age: 7, Active: true}

	var buf strings.Builder
	require.NoError(t, MarshalJSONStream(in, &buf, nil))

	out, err := UnmarshalJSONStream[employee](strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = UnmarshalJSONStream[employee](strings.NewReader("{broken"))
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
}

func TestJSONCtxRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.EnableCompression = true
	cfg.RetryDelay = time.Millisecond

	in := employee{Name: "async", Age: 7}
	payload, err := MarshalJSONCtx(ctx, in, cfg)
	require.NoError(t, err)

	out, err := UnmarshalJSONCtx[employee](ctx, payload, cfg)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONNilAndEmptyInput(t *testing.T) {
	_, err := MarshalJSON(nil)
	assert.ErrorIs(t, err, merr.ErrParameterMissing)

	_, err = UnmarshalJSON[employee]("", nil)
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestJSONDepthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 4

	root := &nested{Label: "0"}
	cur := root
	for i := 0; i < 10; i++ {
		cur.Child = &nested{}
		cur = cur.Child
	}

	_, err := MarshalJSONWithConfig(root, cfg)
	assert.ErrorIs(t, err, merr.ErrDepthExceeded)
	assert.False(t, merr.IsRetryableErr(err))
}

func TestUnmarshalCtxValidation(t *testing.T) {
	ctx := context.Background()

	// 超限输入必须在进入解析/重试之前被拒绝。
	cfg := DefaultConfig()
	cfg.MaxInputLength = 8
	cfg.RetryDelay = time.Millisecond

	start := time.Now()
	_, err := UnmarshalJSONCtx[employee](ctx, strings.Repeat("x", 64), cfg)
	assert.ErrorIs(t, err, merr.ErrParameterTooLarge)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	_, err = UnmarshalCSVCtx[employee](ctx, strings.Repeat("x", 64), cfg)
	assert.ErrorIs(t, err, merr.ErrParameterTooLarge)

	_, err = UnmarshalCSVCtx[employee](ctx, "", cfg)
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestDecodeErrorNotRetried(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.RetryDelay = 200 * time.Millisecond

	// 结构性解码错误是终态错误：立即返回，不会按退避等待。
	start := time.Now()
	_, err := UnmarshalJSONCtx[employee](ctx, "{not json", cfg)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
	assert.Less(t, time.Since(start), cfg.RetryDelay)
}

func TestXMLRoundTrip(t *testing.T) {
	in := employee{Name: "xml", Age: 3, Active: true, Salary: 9.5}

	payload, err := MarshalXML(in, nil)
	require.NoError(t, err)

	out, err := UnmarshalXML[employee](payload, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestXMLCustomRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.XMLRootName = "Employee"
	cfg.XMLNamespace = "urn:serde:test"

	payload, err := MarshalXML(employee{Name: "a"}, cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payload, `<Employee xmlns="urn:serde:test">`))

	out, err := UnmarshalXML[employee](payload, cfg)
	require.NoError(t, err)
	assert.Equal(t, "a", out.Name)
}

func TestCSVFacadeRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.IncludeHeader = true
	cfg.EnableCompression = true
	cfg.RetryDelay = time.Millisecond

	staff := []employee{
		{Name: "Smith, John", Age: 41, Active: true, Salary: 88000.5},
		{Name: "Li Lei", Age: 29},
	}

	payload, err := MarshalCSVCtx(ctx, staff, cfg)
	require.NoError(t, err)

	out, err := UnmarshalCSVCtx[employee](ctx, payload, cfg)
	require.NoError(t, err)
	assert.Equal(t, staff, out)
}

func TestCSVLine(t *testing.T) {
	line, err := MarshalCSVLine(employee{Name: "Smith, John", Active: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, `"Smith, John",0,true,0`, line)
}
