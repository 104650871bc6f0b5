package serde

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

func TestMarshalJSONToFile(t *testing.T) {
	ctx := context.Background()
	// 父目录不存在时应自动创建。
	path := filepath.Join(t.TempDir(), "deep", "nested", "out.json")

	in := employee{Name: "file", Age: 1}
	require.NoError(t, MarshalJSONToFile(ctx, in, path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := UnmarshalJSON[employee](string(data), nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMarshalCSVToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	cfg := DefaultConfig()
	cfg.IncludeHeader = true

	staff := []employee{{Name: "a", Age: 1, Active: true, Salary: 1.5}}
	require.NoError(t, MarshalCSVToFile(ctx, staff, path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age,Active,Salary\na,1,true,1.5\n", string(data))
}

func TestMarshalXMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")

	require.NoError(t, MarshalXMLToFile(employee{Name: "x"}, path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := UnmarshalXML[employee](string(data), nil)
	require.NoError(t, err)
	assert.Equal(t, "x", out.Name)
}

func TestWriteFileEmptyPath(t *testing.T) {
	err := writeTextFile("", "content")
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}
