//go:build debug

package malloc

var poisonblk = make([]byte, 1024)

func init() {
	for i := 0; i < len(poisonblk); i++ {
		poisonblk[i] = 0xff
	}
}

func initchunk(chunk []byte) {
	for i := range chunk {
		chunk[i] = 0
	}
}

// freechunk poison the chunk, stale readers of an object body shall
// see 0xff bytes.
func freechunk(chunk []byte) {
	for len(chunk) > 0 {
		n := copy(chunk, poisonblk)
		chunk = chunk[n:]
	}
}
