// Package rice implements the partitioned Rice entropy coder: zig-zag
// mapping of signed residuals to unsigned values, single-value Rice
// codewords, and the per-sub-block partition search and emission.
package rice

// Zig maps a signed residual to a non-negative integer, interleaving
// negative and positive values so that small-magnitude residuals of
// either sign map to small unsigned values.
func Zig(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// Unzig is the inverse of Zig.
func Unzig(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
