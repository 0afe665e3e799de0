// Package pga implements the fixed 16-component projective geometric algebra
// used by the network layers: the basis blade table, the geometric and outer
// product kernels, the dual-based join, and the codecs translating 3D
// Euclidean primitives to and from multivector coordinates.
//
// The algebra is PGA over 3D space: basis vectors e1, e2, e3 square to +1
// and the null vector e0 squares to 0. Multivector tensors carry the 16
// blade coefficients on the last axis in the fixed ordering below; any
// channel axis sits second-to-last.
package pga

import (
	"errors"
	"math/bits"
)

// NumBlades is the number of basis blades of the algebra.
const NumBlades = 16

// NumGrades is the number of grades (0 through 4).
const NumGrades = 5

// ErrNotImplemented marks a declared codec capability that is not yet
// available. Callers must treat it as a hard failure, never as "zero".
var ErrNotImplemented = errors.New("pga: not implemented")

// Blade coefficient indices on the multivector axis. The ordering is fixed;
// it must match any existing encoded data exactly.
const (
	IdxScalar = 0  // 1
	IdxE0     = 1  // e0
	IdxE1     = 2  // e1
	IdxE2     = 3  // e2
	IdxE3     = 4  // e3
	IdxE01    = 5  // e01
	IdxE02    = 6  // e02
	IdxE03    = 7  // e03
	IdxE23    = 8  // e23
	IdxE31    = 9  // e31
	IdxE12    = 10 // e12
	IdxE023   = 11 // e023
	IdxE031   = 12 // e031
	IdxE012   = 13 // e012
	IdxE123   = 14 // e123
	IdxE0123  = 15 // e0123
)

// bladeMask holds, per blade index, the set of basis vectors in the blade:
// bit i set means e_i is a factor.
var bladeMask = [NumBlades]uint8{
	0b0000,         // 1
	0b0001,         // e0
	0b0010, 0b0100, // e1, e2
	0b1000,         // e3
	0b0011, 0b0101, // e01, e02
	0b1001,         // e03
	0b1100, 0b1010, // e23, e31
	0b0110,         // e12
	0b1101, 0b1011, // e023, e031
	0b0111, // e012
	0b1110, // e123
	0b1111, // e0123
}

// bladeCanonSign relates each listed blade to its index-sorted form:
// listed = sign * sorted. Only e31 (= -e13) and e031 (= -e013) are reversed.
var bladeCanonSign = [NumBlades]float64{
	1, 1, 1, 1, 1,
	1, 1, 1,
	1, -1, 1,
	1, -1, 1,
	1,
	1,
}

// maskToBlade inverts bladeMask.
var maskToBlade = buildMaskToBlade()

// gradeBlades lists the blade indices of each grade.
var gradeBlades = buildGradeBlades()

func buildMaskToBlade() [NumBlades]int {
	var out [NumBlades]int
	for i, m := range bladeMask {
		out[m] = i
	}
	return out
}

func buildGradeBlades() [NumGrades][]int {
	var out [NumGrades][]int
	for i, m := range bladeMask {
		g := bits.OnesCount8(m)
		out[g] = append(out[g], i)
	}
	return out
}

// BladeGrade returns the grade (number of basis vector factors) of the blade
// at the given multivector index.
func BladeGrade(idx int) int {
	return bits.OnesCount8(bladeMask[idx])
}

// GradeBlades returns the multivector indices of all blades of the given
// grade, in ascending index order. The returned slice must not be modified.
func GradeBlades(grade int) []int {
	return gradeBlades[grade]
}

// reorderSign computes the sign picked up when multiplying two index-sorted
// blades and re-sorting the factors: (-1)^(number of transpositions).
func reorderSign(a, b uint8) float64 {
	sign := 1.0
	for i := 0; i < 4; i++ {
		if b&(1<<i) == 0 {
			continue
		}
		// Factors of a strictly greater than i must jump over e_i.
		higher := bits.OnesCount8(a >> (i + 1))
		if higher%2 == 1 {
			sign = -sign
		}
	}
	return sign
}
