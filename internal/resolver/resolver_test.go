package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CanonicalURI_PassesThroughSchemes(t *testing.T) {
	assert := assert.New(t)

	for _, in := range []string{"file:///a/b.dp", "http://example.com/a.dp", "https://example.com/a.dp"} {
		out, err := CanonicalURI(in)
		assert.NoError(err)
		assert.Equal(in, out)
	}
}

func Test_CanonicalURI_RelativePathBecomesFileURI(t *testing.T) {
	assert := assert.New(t)

	out, err := CanonicalURI("a.dp")
	assert.NoError(err)
	assert.Contains(out, "file://")
	assert.Contains(out, "a.dp")
}

func Test_ResolveImport_RelativeToImportingFile(t *testing.T) {
	assert := assert.New(t)

	from, err := CanonicalURI("/project/main.dp")
	assert.NoError(err)

	out, err := ResolveImport(from, "lib/common.dp")
	assert.NoError(err)
	assert.Equal("file:///project/lib/common.dp", out)
}

func Test_ResolveImport_AbsoluteLiteralStaysAbsolute(t *testing.T) {
	assert := assert.New(t)

	from, err := CanonicalURI("/project/sub/main.dp")
	assert.NoError(err)

	abs := filepath.Join(string(filepath.Separator), "other", "root.dp")
	out, err := ResolveImport(from, abs)
	assert.NoError(err)
	assert.Equal("file:///other/root.dp", out)
}

func Test_MemResolver_SetExistsGetText(t *testing.T) {
	assert := assert.New(t)

	m := NewMemResolver(map[string]string{"a.dp": "label start:\n"})
	ctx := context.Background()

	assert.True(m.Exists(ctx, "a.dp"))
	text, err := m.GetText(ctx, "a.dp")
	assert.NoError(err)
	assert.Equal("label start:\n", text)

	assert.False(m.Exists(ctx, "missing.dp"))
	_, err = m.GetText(ctx, "missing.dp")
	assert.Error(err)

	m.Set("b.dp", "label other:\n")
	assert.True(m.Exists(ctx, "b.dp"))
}

func Test_FSResolver_ReadsRealFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.dp")
	assert.NoError(os.WriteFile(path, []byte("label start:\n"), 0644))

	var r FSResolver
	ctx := context.Background()

	assert.True(r.Exists(ctx, path))
	text, err := r.GetText(ctx, path)
	assert.NoError(err)
	assert.Equal("label start:\n", text)

	assert.False(r.Exists(ctx, filepath.Join(dir, "missing.dp")))
}
