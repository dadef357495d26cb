package rice

import "github.com/neac-audio/neac/internal/bits"

// MaxParam is the largest usable Rice parameter (5-bit field, with value
// 31 reserved as the BlankPartition sentinel).
const MaxParam = 30

// BlankPartition is the sentinel parameter value meaning "every residual
// in this partition is zero", carrying no payload.
const BlankPartition = 31

// WriteValue writes a single signed residual as a Rice codeword with
// parameter k: a unary quotient followed by a k-bit remainder.
func WriteValue(bw *bits.Writer, v int32, k uint) error {
	u := Zig(v)
	q := u >> k
	if err := bw.WriteUnary(q); err != nil {
		return err
	}
	if k == 0 {
		return nil
	}
	mask := uint32(1)<<k - 1
	return bw.WriteUint(u&mask, k)
}

// ReadValue reads a single Rice codeword with parameter k and returns the
// decoded signed residual.
func ReadValue(br *bits.Reader, k uint) (int32, error) {
	q, err := br.ReadUnary()
	if err != nil {
		return 0, err
	}
	var rem uint32
	if k > 0 {
		rem, err = br.ReadUint(k)
		if err != nil {
			return 0, err
		}
	}
	u := (q << k) | rem
	return Unzig(u), nil
}

// Cost returns the number of bits WriteValue would emit for v at
// parameter k, without performing any I/O. The partition search does not
// call it; it charges partitionCost instead.
func Cost(v int32, k uint) uint64 {
	u := Zig(v)
	return uint64(u>>k) + 1 + uint64(k)
}
