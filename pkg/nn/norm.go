package nn

import (
	"fmt"
	"math"

	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

// EquiRMSNorm implements RMS-style normalization for multivector tensors.
//
// For each position the squared coefficient norm is computed per grade and
// summed, then averaged over the channel axis; every channel is divided by
// the square root of that shared mean. Because the norm treats each grade
// subspace as a whole, the operation commutes with the algebra's isometry
// group and preserves equivariance.
//
// Formula, per position with C channels:
//
//	ms = mean_c( sum_b x[c,b]^2 )
//	x_norm[c,b] = x[c,b] / sqrt(ms + eps)
//	output[c,b] = x_norm[c,b] * weight[c]   (when rescale is enabled)
type EquiRMSNorm struct {
	Channels int
	Eps      float64        // 0 means no guard, mirroring an unset epsilon
	Weight   *tensor.Tensor // (channels,) learnable rescale, nil when disabled
}

// NewEquiRMSNorm creates a normalization layer over the given channel count.
// When channelwiseRescale is set, a learnable per-channel weight is attached
// and initialized to ones.
func NewEquiRMSNorm(channels int, eps float64, channelwiseRescale bool) *EquiRMSNorm {
	var weight *tensor.Tensor
	if channelwiseRescale {
		weight = tensor.NewTensor([]int{channels})
		for i := range weight.Data {
			weight.Data[i] = 1.0
		}
	}

	return &EquiRMSNorm{
		Channels: channels,
		Eps:      eps,
		Weight:   weight,
	}
}

// Forward normalizes the input.
//
// Input shape: (..., channels, 16)
// Output shape: same as input
func (n *EquiRMSNorm) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.NumDims() < 2 {
		return nil, fmt.Errorf("equi rms norm expects at least 2D input, got %dD", x.NumDims())
	}
	if x.Shape[x.NumDims()-1] != pga.NumBlades {
		return nil, fmt.Errorf("equi rms norm expects last dimension %d, got shape %v", pga.NumBlades, x.Shape)
	}
	if x.Shape[x.NumDims()-2] != n.Channels {
		return nil, fmt.Errorf("equi rms norm expects %d channels, got shape %v", n.Channels, x.Shape)
	}

	result := tensor.NewTensor(x.Shape)

	stride := n.Channels * pga.NumBlades
	leading := x.Size() / stride

	for lead := 0; lead < leading; lead++ {
		src := x.Data[lead*stride : (lead+1)*stride]
		dst := result.Data[lead*stride : (lead+1)*stride]

		total := 0.0
		for _, v := range src {
			total += v * v
		}
		invRMS := 1.0 / math.Sqrt(total/float64(n.Channels)+n.Eps)

		for c := 0; c < n.Channels; c++ {
			scale := invRMS
			if n.Weight != nil {
				scale *= n.Weight.Data[c]
			}
			for b := 0; b < pga.NumBlades; b++ {
				dst[c*pga.NumBlades+b] = src[c*pga.NumBlades+b] * scale
			}
		}
	}

	return result, nil
}
