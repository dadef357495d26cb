package rice

import (
	"math/bits"

	neacbits "github.com/neac-audio/neac/internal/bits"
)

// bitWidth returns the number of bits needed to represent x, with
// bitWidth(0) == 0.
func bitWidth(x uint64) uint {
	if x == 0 {
		return 0
	}
	return uint(bits.Len64(x))
}

// estimateParam picks the Rice parameter for a non-all-zero partition as
// the bit-width of the rounded mean of absolute residuals, clamped to
// [0, MaxParam].
func estimateParam(part []int32) uint {
	var sum uint64
	for _, v := range part {
		if v < 0 {
			sum += uint64(-int64(v))
		} else {
			sum += uint64(v)
		}
	}
	mean := (sum + uint64(len(part))/2) / uint64(len(part))
	k := bitWidth(mean)
	if k > MaxParam {
		k = MaxParam
	}
	return k
}

// partitionCost returns the encoded bit cost of one partition at
// parameter k, per spec's charge formula: the unary quotient sum plus
// k bits per value plus the 5-bit parameter field. It omits the ps
// terminating unary zero-bits that WriteValue actually emits. Blank
// partitions emit no codewords, so the number of omitted bits depends on
// how many partitions a candidate pp leaves blank; the pp chosen by
// SearchPartition minimizes this charge, which can differ from the pp
// with the fewest emitted bits.
func partitionCost(part []int32, k uint) uint64 {
	cost := uint64(5) + uint64(k)*uint64(len(part))
	for _, v := range part {
		cost += uint64(Zig(v) >> k)
	}
	return cost
}

// SearchPartition exhaustively evaluates partition order pp in [1, 4] and
// returns the pp minimizing the total partitionCost charge (ties broken toward the
// smaller pp), along with the per-partition Rice parameter (or
// BlankPartition) chosen for that pp. len(residuals) must be evenly
// divisible by 2^4 = 16, which the container enforces on block size.
func SearchPartition(residuals []int32) (pp uint8, params []uint8) {
	var bestCost uint64
	haveBest := false
	var bestPP uint8
	var bestParams []uint8

	n := len(residuals)
	for cand := uint8(1); cand <= 4; cand++ {
		numParts := 1 << cand
		if n%numParts != 0 {
			continue
		}
		ps := n / numParts
		cost := uint64(2)
		candParams := make([]uint8, numParts)
		for i := 0; i < numParts; i++ {
			part := residuals[i*ps : (i+1)*ps]
			if allZero(part) {
				candParams[i] = BlankPartition
				cost += 5
				continue
			}
			k := estimateParam(part)
			candParams[i] = uint8(k)
			cost += partitionCost(part, k)
		}
		if !haveBest || cost < bestCost {
			haveBest = true
			bestCost = cost
			bestPP = cand
			bestParams = candParams
		}
	}
	return bestPP, bestParams
}

func allZero(part []int32) bool {
	for _, v := range part {
		if v != 0 {
			return false
		}
	}
	return true
}

// EncodePartitioned runs the partition search over residuals and writes
// the partition order field, per-partition parameter fields, and payload
// to bw.
func EncodePartitioned(bw *neacbits.Writer, residuals []int32) error {
	pp, params := SearchPartition(residuals)
	if err := bw.WriteUint(uint32(pp-1), 2); err != nil {
		return err
	}
	numParts := 1 << pp
	ps := len(residuals) / numParts
	for i, k := range params {
		if err := bw.WriteUint(uint32(k), 5); err != nil {
			return err
		}
		if k == BlankPartition {
			continue
		}
		part := residuals[i*ps : (i+1)*ps]
		for _, v := range part {
			if err := WriteValue(bw, v, uint(k)); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodePartitioned reads a partitioned Rice-coded sub-block of n
// residuals from br.
func DecodePartitioned(br *neacbits.Reader, n int) ([]int32, error) {
	ppField, err := br.ReadUint(2)
	if err != nil {
		return nil, err
	}
	pp := uint8(ppField) + 1
	numParts := 1 << pp
	ps := n / numParts

	out := make([]int32, 0, n)
	for i := 0; i < numParts; i++ {
		kField, err := br.ReadUint(5)
		if err != nil {
			return nil, err
		}
		k := uint8(kField)
		if k == BlankPartition {
			for j := 0; j < ps; j++ {
				out = append(out, 0)
			}
			continue
		}
		for j := 0; j < ps; j++ {
			v, err := ReadValue(br, uint(k))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}
