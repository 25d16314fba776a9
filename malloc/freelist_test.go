package malloc

import "sync"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestFreelist(t *testing.T) {
	marena := NewArena(testsettings(1024*1024, 64*1024))
	defer marena.Release()

	fl := NewFreelist(marena, 64, 2)
	assert.Equal(t, int64(64), fl.Size())

	a, pa, err := fl.Alloc()
	require.NoError(t, err)
	b, pb, err := fl.Alloc()
	require.NoError(t, err)
	c, pc, err := fl.Alloc()
	require.NoError(t, err)
	b[0] = 0xAB

	fl.Free(a, pa)
	fl.Free(b, pb)
	fl.Free(c, pc) // list is full, goes back to arena
	assert.Equal(t, 2, fl.Count())
	_, _, alloc, _ := marena.Info()
	assert.Equal(t, int64(128), alloc)

	x, _, err := fl.Alloc()
	require.NoError(t, err)
	assert.Same(t, &b[0], &x[0])
	assert.Equal(t, byte(0), x[0])

	stats := fl.Stats()
	assert.Equal(t, int64(1), stats["n_hits"])
	assert.Equal(t, int64(3), stats["n_misses"])
	assert.Equal(t, 1, stats["count"])

	fl.Release()
	assert.Equal(t, 0, fl.Count())
	_, _, alloc, _ = marena.Info()
	assert.Equal(t, int64(64), alloc)

	assert.Panics(t, func() { fl.Free(make([]byte, 32), pa) })
	assert.Panics(t, func() { NewFreelist(marena, 0, 2) })
}

func TestFreelistConcur(t *testing.T) {
	var wg sync.WaitGroup

	marena := NewArena(testsettings(16*1024*1024, 1024*1024))
	defer marena.Release()
	fl := NewFreelist(marena, 256, 16)

	nroutines, repeat := 8, 1000
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func() {
			defer wg.Done()
			for i := 0; i < repeat; i++ {
				chunk, pool, err := fl.Alloc()
				if err != nil {
					t.Errorf("unexpected %v", err)
					return
				}
				fl.Free(chunk, pool)
			}
		}()
	}
	wg.Wait()
	fl.Release()

	_, _, alloc, _ := marena.Info()
	assert.Equal(t, int64(0), alloc)
}
