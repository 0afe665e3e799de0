package pga

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"

	"gatr/pkg/tensor"
)

// DefaultDecodeThreshold is the minimum magnitude allowed for the
// homogeneous weight when decoding divides by it. Values at or below the
// threshold are replaced by the threshold itself to avoid exploding values
// or NaNs when the un-physical component drifts toward zero.
const DefaultDecodeThreshold = 1e-3

// mvShapeFor returns the multivector shape matching the leading dimensions
// of a native-primitive tensor: shape[:-1] + (16,).
func mvShapeFor(t *tensor.Tensor) []int {
	shape := make([]int, t.NumDims())
	copy(shape, t.Shape[:t.NumDims()-1])
	shape[t.NumDims()-1] = NumBlades
	return shape
}

// checkLastDim verifies that the tensor's last axis has the given size and
// returns the number of rows.
func checkLastDim(t *tensor.Tensor, want int, what string) (int, error) {
	if t.NumDims() < 1 || t.Shape[t.NumDims()-1] != want {
		return 0, fmt.Errorf("%s: expected last dimension %d, got shape %v", what, want, t.Shape)
	}
	return t.Size() / want, nil
}

// clampWeight applies the unsigned threshold rule used by the decoders:
// the weight passes through when its magnitude exceeds the threshold and is
// replaced by +threshold otherwise, regardless of its sign.
func clampWeight(w, threshold float64) float64 {
	if w > threshold || w < -threshold {
		return w
	}
	return threshold
}

// EncodePoint encodes 3D Euclidean points to PGA.
//
// A point is the intersection of three planes and is represented with the
// trivectors e0ij plus a unit homogeneous weight on e123. The sign pattern
// on indices 11–13 is fixed by the chosen trivector ordering
// (e023, e031, e012, e123) and must not be altered.
//
// Input shape (..., 3), output shape (..., 16).
func EncodePoint(points *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkLastDim(points, 3, "point encode")
	if err != nil {
		return nil, err
	}

	mvs := tensor.NewTensor(mvShapeFor(points))
	for r := 0; r < rows; r++ {
		p := points.Data[r*3 : r*3+3]
		out := mvs.Data[r*NumBlades : (r+1)*NumBlades]

		out[IdxE123] = 1.0
		out[IdxE012] = -p[0]
		out[IdxE031] = p[1]
		out[IdxE023] = -p[2]
	}

	return mvs, nil
}

// DecodePoint decodes 3D Euclidean points from PGA, inverting EncodePoint:
// indices 11–13 are divided by the e123 homogeneous weight with the same
// sign flips the encoder applies. The weight is clamped away from zero by
// the unsigned threshold rule (see DefaultDecodeThreshold).
//
// Input shape (..., 16), output shape (..., 3).
func DecodePoint(mvs *tensor.Tensor, threshold float64) (*tensor.Tensor, error) {
	rows, err := checkLastDim(mvs, NumBlades, "point decode")
	if err != nil {
		return nil, err
	}

	shape := make([]int, mvs.NumDims())
	copy(shape, mvs.Shape[:mvs.NumDims()-1])
	shape[mvs.NumDims()-1] = 3
	points := tensor.NewTensor(shape)

	for r := 0; r < rows; r++ {
		mv := mvs.Data[r*NumBlades : (r+1)*NumBlades]
		w := clampWeight(mv[IdxE123], threshold)

		out := points.Data[r*3 : r*3+3]
		out[0] = -mv[IdxE012] / w
		out[1] = mv[IdxE031] / w
		out[2] = -mv[IdxE023] / w
	}

	return points, nil
}

// EncodePlane encodes oriented planes to PGA.
//
// The normal's three components occupy the vector indices 2–4. The second
// argument is either a batch of scalar distances to the origin (0-D or 1-D
// tensor, placed directly at index 1) or a batch of positions on the planes
// (shape (..., 3)). In the position form the zero-distance plane is moved
// onto the position by conjugating with the position's translator versor:
//
//	gp(gp(T, plane), T⁻¹)
//
// which is the standard PGA way of translating a geometric object.
func EncodePlane(normals, distance *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkLastDim(normals, 3, "plane encode")
	if err != nil {
		return nil, err
	}

	mvs := tensor.NewTensor(mvShapeFor(normals))
	for r := 0; r < rows; r++ {
		n := normals.Data[r*3 : r*3+3]
		out := mvs.Data[r*NumBlades : (r+1)*NumBlades]
		out[IdxE1] = n[0]
		out[IdxE2] = n[1]
		out[IdxE3] = n[2]
	}

	// A 0-D or 1-D second argument is a batch of scalar distances.
	if distance.NumDims() <= 1 {
		switch distance.Size() {
		case 1:
			for r := 0; r < rows; r++ {
				mvs.Data[r*NumBlades+IdxE0] = distance.Data[0]
			}
		case rows:
			for r := 0; r < rows; r++ {
				mvs.Data[r*NumBlades+IdxE0] = distance.Data[r]
			}
		default:
			return nil, fmt.Errorf("plane encode: %d distances for %d planes", distance.Size(), rows)
		}
		return mvs, nil
	}

	if !distance.ShapeEquals(normals) {
		return nil, fmt.Errorf("plane encode: position shape %v does not match normal shape %v",
			distance.Shape, normals.Shape)
	}

	translation, err := EncodeTranslation(distance)
	if err != nil {
		return nil, fmt.Errorf("plane encode: %w", err)
	}
	negated := distance.Clone()
	for i := range negated.Data {
		negated.Data[i] = -negated.Data[i]
	}
	inverseTranslation, err := EncodeTranslation(negated)
	if err != nil {
		return nil, fmt.Errorf("plane encode: %w", err)
	}

	moved, err := GeometricProduct(translation, mvs)
	if err != nil {
		return nil, fmt.Errorf("plane encode: %w", err)
	}
	mvs, err = GeometricProduct(moved, inverseTranslation)
	if err != nil {
		return nil, fmt.Errorf("plane encode: %w", err)
	}

	return mvs, nil
}

// DecodePlane is a declared capability with no implementation yet: the
// direction lives at indices 2–4, but recovering the distance requires
// undoing the implicit translation applied when the plane was encoded via a
// position, and that inverse is not defined here. Calling it fails with
// ErrNotImplemented.
func DecodePlane(mvs *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("plane decode: %w", ErrNotImplemented)
}

// EncodeScalar encodes scalar values at index 0 of the multivector, all
// other components zero. Input shape (..., 1), output shape (..., 16).
func EncodeScalar(scalars *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkLastDim(scalars, 1, "scalar encode")
	if err != nil {
		return nil, err
	}

	mvs := tensor.NewTensor(mvShapeFor(scalars))
	for r := 0; r < rows; r++ {
		mvs.Data[r*NumBlades+IdxScalar] = scalars.Data[r]
	}
	return mvs, nil
}

// DecodeScalar reads back index 0. Input shape (..., 16), output (..., 1).
// Exact inverse of EncodeScalar.
func DecodeScalar(mvs *tensor.Tensor) (*tensor.Tensor, error) {
	return decodeSingleBlade(mvs, IdxScalar, "scalar decode")
}

// EncodePseudoscalar encodes pseudoscalar values at index 15 (e0123), all
// other components zero. Input shape (..., 1), output shape (..., 16).
func EncodePseudoscalar(pseudoscalars *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkLastDim(pseudoscalars, 1, "pseudoscalar encode")
	if err != nil {
		return nil, err
	}

	mvs := tensor.NewTensor(mvShapeFor(pseudoscalars))
	for r := 0; r < rows; r++ {
		mvs.Data[r*NumBlades+IdxE0123] = pseudoscalars.Data[r]
	}
	return mvs, nil
}

// DecodePseudoscalar reads back index 15. Input shape (..., 16), output
// (..., 1). Exact inverse of EncodePseudoscalar.
func DecodePseudoscalar(mvs *tensor.Tensor) (*tensor.Tensor, error) {
	return decodeSingleBlade(mvs, IdxE0123, "pseudoscalar decode")
}

func decodeSingleBlade(mvs *tensor.Tensor, blade int, what string) (*tensor.Tensor, error) {
	rows, err := checkLastDim(mvs, NumBlades, what)
	if err != nil {
		return nil, err
	}

	shape := make([]int, mvs.NumDims())
	copy(shape, mvs.Shape[:mvs.NumDims()-1])
	shape[mvs.NumDims()-1] = 1
	out := tensor.NewTensor(shape)

	for r := 0; r < rows; r++ {
		out.Data[r] = mvs.Data[r*NumBlades+blade]
	}
	return out, nil
}

// EncodeReflection encodes a reflection operator. A plane serves as a
// reflection in PGA, so reflections share the plane representation exactly.
func EncodeReflection(normals, positions *tensor.Tensor) (*tensor.Tensor, error) {
	return EncodePlane(normals, positions)
}

// DecodeReflection is the plane decode under another name; it fails with
// ErrNotImplemented like DecodePlane.
func DecodeReflection(mvs *tensor.Tensor) (*tensor.Tensor, error) {
	return DecodePlane(mvs)
}

// EncodeRotation is a declared capability with no implementation yet. The
// encoding must use the exponential map from so(3) bivectors (indices 8–10)
// to a rotor with the same half-angle convention EncodeTranslation uses for
// its half-distance factor; that convention is deliberately not guessed
// here. Calling it fails with ErrNotImplemented.
func EncodeRotation(quaternions []quat.Number) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("rotation encode: %w", ErrNotImplemented)
}

// DecodeRotation is the inverse declared capability of EncodeRotation, also
// unimplemented. Calling it fails with ErrNotImplemented.
func DecodeRotation(mvs *tensor.Tensor) ([]quat.Number, error) {
	return nil, fmt.Errorf("rotation decode: %w", ErrNotImplemented)
}

// EncodeTranslation encodes translations to PGA translator versors.
//
// From PGA4CS (page 55, equation 82) a translator is
//
//	T_t = 1 + e0 t / 2
//
// so the output carries 1 on the scalar component and the half translation
// on the e0i bivectors (indices 5–7). Both the 1/2 factor and the sign on
// indices 5–7 are load-bearing; they must match the textbook definition
// exactly for the sandwich product to translate correctly.
//
// Input shape (..., 3), output shape (..., 16).
func EncodeTranslation(delta *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkLastDim(delta, 3, "translation encode")
	if err != nil {
		return nil, err
	}

	mvs := tensor.NewTensor(mvShapeFor(delta))
	for r := 0; r < rows; r++ {
		d := delta.Data[r*3 : r*3+3]
		out := mvs.Data[r*NumBlades : (r+1)*NumBlades]

		out[IdxScalar] = 1.0
		out[IdxE01] = -0.5 * d[0]
		out[IdxE02] = -0.5 * d[1]
		out[IdxE03] = -0.5 * d[2]
	}

	return mvs, nil
}

// DecodeTranslation decodes translations from PGA translator versors.
//
// The translation is read from the e0i bivectors as -2 * mv[5:8]. The
// scalar part of a translator is always 1 in theory, but a learned versor
// can drift; with divideByEmbeddingDim set, each component is divided by
// the scalar part, clamped away from zero by the unsigned threshold rule:
// a scalar part of magnitude at or below threshold is replaced by
// +threshold regardless of its sign. Proper PGA etiquette would always
// divide, but it may not be good for network training, so it is opt-in.
//
// The round trip through EncodeTranslation is exact when
// divideByEmbeddingDim is false.
//
// Input shape (..., 16), output shape (..., 3).
func DecodeTranslation(mvs *tensor.Tensor, divideByEmbeddingDim bool, threshold float64) (*tensor.Tensor, error) {
	rows, err := checkLastDim(mvs, NumBlades, "translation decode")
	if err != nil {
		return nil, err
	}

	shape := make([]int, mvs.NumDims())
	copy(shape, mvs.Shape[:mvs.NumDims()-1])
	shape[mvs.NumDims()-1] = 3
	delta := tensor.NewTensor(shape)

	for r := 0; r < rows; r++ {
		mv := mvs.Data[r*NumBlades : (r+1)*NumBlades]
		out := delta.Data[r*3 : r*3+3]

		out[0] = -2.0 * mv[IdxE01]
		out[1] = -2.0 * mv[IdxE02]
		out[2] = -2.0 * mv[IdxE03]

		if divideByEmbeddingDim {
			w := clampWeight(mv[IdxScalar], threshold)
			out[0] /= w
			out[1] /= w
			out[2] /= w
		}
	}

	return delta, nil
}
