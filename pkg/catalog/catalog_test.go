package catalog_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/catalog"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
)

func buildEmptyStore(t *testing.T, nodeCount int64) *store.GraphStore {
	t.Helper()
	interner := schema.NewInterner()
	sch := schema.New(interner)
	b := idmap.NewBuilder()
	for i := int64(0); i < nodeCount; i++ {
		b.Add(i)
	}
	return store.New(b.Build(), sch, nil, nil, nil)
}

func TestCatalog_SetThenGet(t *testing.T) {
	c := catalog.New()
	s := buildEmptyStore(t, 5)

	c.Set("g", s)
	got, ok := c.Get("g")
	require.True(t, ok)
	assert.Equal(t, int64(5), got.NodeCount())
}

func TestCatalog_LoadOrErr_MissingNameFails(t *testing.T) {
	c := catalog.New()
	_, err := c.LoadOrErr("nope")
	require.Error(t, err)
}

func TestCatalog_Set_CommitsAtomically(t *testing.T) {
	c := catalog.New()
	s1 := buildEmptyStore(t, 3)
	s2 := buildEmptyStore(t, 7)

	c.Set("g", s1)
	c.Set("g", s2)

	got, _ := c.Get("g")
	assert.Equal(t, int64(7), got.NodeCount())
}

func TestCatalog_List_IsSorted(t *testing.T) {
	c := catalog.New()
	c.Set("zeta", buildEmptyStore(t, 1))
	c.Set("alpha", buildEmptyStore(t, 1))

	assert.Equal(t, []string{"alpha", "zeta"}, c.List())
}

func TestCatalog_Drop(t *testing.T) {
	c := catalog.New()
	c.Set("g", buildEmptyStore(t, 1))

	assert.True(t, c.Drop("g"))
	assert.False(t, c.Drop("g"))
	_, ok := c.Get("g")
	assert.False(t, ok)
}

func TestCatalog_ConcurrentGetSet(t *testing.T) {
	c := catalog.New()
	c.Set("g", buildEmptyStore(t, 1))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("g", buildEmptyStore(t, 1))
		}()
		go func() {
			defer wg.Done()
			c.Get("g")
		}()
	}
	wg.Wait()
}
