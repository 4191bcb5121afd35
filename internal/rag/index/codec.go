package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Binary vector blob layout, little-endian:
// dim(uint32), count(uint32), then count*dim float32 values in row order.

// ErrCorruptData signals an unreadable or truncated vector blob.
var ErrCorruptData = errors.New("index: corrupt vector data")

// EncodeVectors serializes vectors into the binary blob format.
func EncodeVectors(dim int, vectors [][]float32) []byte {
	out := make([]byte, 0, 8+4*dim*len(vectors))
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(vectors)))
	for _, vec := range vectors {
		for _, v := range vec {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}

// DecodeVectors parses a binary vector blob. The payload length must match
// the declared dimension and count exactly.
func DecodeVectors(data []byte) (dim int, vectors [][]float32, err error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrCorruptData, len(data))
	}
	dim = int(binary.LittleEndian.Uint32(data[0:4]))
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	if dim < 0 || count < 0 {
		return 0, nil, fmt.Errorf("%w: dim=%d count=%d", ErrCorruptData, dim, count)
	}

	// bound dim and count by the payload before multiplying, so a crafted
	// header can neither overflow the size check nor drive a huge allocation
	payload := len(data) - 8
	if count > 0 && (dim <= 0 || dim > payload/4 || count > payload/(4*dim)) {
		return 0, nil, fmt.Errorf("%w: dim=%d count=%d implausible for %d bytes",
			ErrCorruptData, dim, count, len(data))
	}

	want := 8 + 4*dim*count
	if len(data) != want {
		return 0, nil, fmt.Errorf("%w: expected %d bytes for dim=%d count=%d, got %d",
			ErrCorruptData, want, dim, count, len(data))
	}

	vectors = make([][]float32, count)
	off := 8
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}
