package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/dpc/internal/cachestore"
	"github.com/dekarrin/dpc/internal/resolver"
)

func Test_Session_WriteThroughToCacheStore_ThenReadsBackAfterEviction(t *testing.T) {
	assert := assert.New(t)

	st, err := cachestore.Open(t.TempDir())
	assert.NoError(err)
	defer st.Close()

	res := resolver.NewMemResolver(map[string]string{
		"a.dp": "label start:\n    Alice \"hi\"\n",
	})

	s := New(res)
	s.UseCacheStore(st)

	_, err = s.Compile(context.Background(), "a.dp")
	assert.NoError(err)

	uri, err := resolver.CanonicalURI("a.dp")
	assert.NoError(err)

	entry, ok, err := st.Get(context.Background(), uri)
	assert.NoError(err)
	assert.True(ok)
	assert.True(entry.Success)
	assert.Contains(entry.LabelNames, "start")

	// Simulate a fresh process: a new Session with no in-memory cache but
	// the same persistent store should still answer a cached-result query.
	fresh := New(res)
	fresh.UseCacheStore(st)

	result, ok := fresh.GetCachedCompileResult("a.dp")
	assert.True(ok)
	assert.True(result.Success)
	assert.Contains(result.Labels.Labels, "start")
}
