package cell_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/cell"
	"github.com/ordecgo/ordb/ordb"
)

var leafType = ordb.NewNodeType("Leaf", nil)

type invParams struct {
	W int
}

func TestInternReturnsSameCellForEqualParams(t *testing.T) {
	a := cell.Intern("inv", invParams{W: 1})
	b := cell.Intern("inv", invParams{W: 1})
	require.Same(t, a, b)
}

func TestInternDistinguishesParams(t *testing.T) {
	a := cell.Intern("inv", invParams{W: 1})
	b := cell.Intern("inv", invParams{W: 2})
	require.NotSame(t, a, b)
}

func TestViewIsComputedOnceAndCached(t *testing.T) {
	c := cell.Intern("counted", invParams{W: 3})
	var calls int32
	gen := func(c *cell.Cell) (*ordb.MutableSubgraph, error) {
		atomic.AddInt32(&calls, 1)
		return ordb.NewSubgraph(leafType, nil)
	}
	_, err := c.View("symbol", gen)
	require.NoError(t, err)
	_, err = c.View("symbol", gen)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls)
}

func TestViewErrorDoesNotPoisonCache(t *testing.T) {
	c := cell.Intern("flaky", invParams{W: 4})
	attempt := 0
	gen := func(c *cell.Cell) (*ordb.MutableSubgraph, error) {
		attempt++
		if attempt == 1 {
			return nil, errors.New("boom")
		}
		return ordb.NewSubgraph(leafType, nil)
	}
	_, err := c.View("symbol", gen)
	require.Error(t, err)
	_, err = c.View("symbol", gen)
	require.NoError(t, err)
	require.Equal(t, 2, attempt)
}

func TestConcurrentViewRequestsAreSafe(t *testing.T) {
	c := cell.Intern("concurrent", invParams{W: 5})
	gen := func(c *cell.Cell) (*ordb.MutableSubgraph, error) {
		return ordb.NewSubgraph(leafType, nil)
	}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.View("symbol", gen)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}
