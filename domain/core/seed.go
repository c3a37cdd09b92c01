package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// DeriveSeed maps (base seed, stream name, iteration index) to an independent
// sub-seed. The mapping is a pure function so any iteration can be replayed
// without running the ones before it.
func DeriveSeed(base int64, stream string, index int) (int64, error) {
	if index < 0 {
		return 0, NewRandomnessError(fmt.Errorf("negative iteration index %d", index))
	}

	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(base))
	h.Write(buf[:])
	h.Write([]byte(stream))
	binary.BigEndian.PutUint64(buf[:], uint64(index))
	h.Write(buf[:])

	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8])), nil
}

// RandomSeed draws a fresh seed from the operating system. Runs seeded this
// way are not reproducible unless the returned value is recorded.
func RandomSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, NewRandomnessError(err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}
