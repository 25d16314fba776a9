package malloc

import "testing"
import "math/rand"

func TestPoolflistAlloc(t *testing.T) {
	marena := NewArena(testsettings(1024*1024, 64*1024))
	defer marena.Release()

	size, n := int64(96), int64(56)
	mpool := newpoolflist(marena, size, n)
	if x := mpool.checkallocated(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	// allocate
	chunks := make([][]byte, 0, n)
	for i := int64(0); i < n; i++ {
		chunk, ok := mpool.allocchunk()
		capacity, _, alloc, _ := mpool.info()
		if ok == false {
			t.Fatalf("unable to allocate %v chunk", i)
		} else if y := (i + 1) * size; alloc != y {
			t.Errorf("expected %v, got %v", y, alloc)
		} else if y = (n - i - 1) * size; capacity-alloc != y {
			t.Errorf("expected %v, got %v", y, capacity-alloc)
		}
		chunks = append(chunks, chunk)
	}
	if _, ok := mpool.allocchunk(); ok {
		t.Errorf("expected pool to be exhausted")
	}
	if x, y := mpool.checkallocated(), n*size; x != y {
		t.Errorf("expected %v, got %v", y, x)
	}

	// randomly free the chunks
	for _, i := range rand.Perm(int(n)) {
		mpool.Free(chunks[i])
	}
	if x := mpool.checkallocated(); x != 0 {
		t.Errorf("unexpected %v", x)
	} else if _, _, alloc, _ := mpool.info(); alloc != 0 {
		t.Errorf("unexpected %v", alloc)
	}

	// unaligned chunk
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		chunk, _ := mpool.allocchunk()
		mpool.Free(chunk[1:])
	}()
}

func TestPoolflistInfo(t *testing.T) {
	marena := NewArena(testsettings(1024*1024, 64*1024))
	defer marena.Release()

	size, n := int64(96), int64(1024)
	mpool := newpoolflist(marena, size, n)
	capacity, heap, alloc, overhead := mpool.Info()
	if capacity != 98304 {
		t.Errorf("unexpected capacity %v", capacity)
	} else if heap != 98304 {
		t.Errorf("unexpected heap %v", heap)
	} else if alloc != 0 {
		t.Errorf("unexpected alloc %v", alloc)
	} else if overhead < 2048 {
		t.Errorf("unexpected overhead %v", overhead)
	}
}

func BenchmarkPoolflistAlloc(b *testing.B) {
	marena := NewArena(testsettings(1024*1024*1024, 64*1024))
	defer marena.Release()
	mpool := newpoolflist(marena, 96, Maxchunks)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chunk, _ := mpool.allocchunk()
		mpool.Free(chunk)
	}
}
