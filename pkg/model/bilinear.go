package model

import (
	"fmt"

	"gatr/pkg/nn"
	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

// Bilinear implements the geometric bilinear sub-layer of the geometric MLP.
//
// The geometric bilinear operation consists of a geometric product and an
// equivariant join. One equivariant linear projection expands the hidden
// channels to 2 * size_channels_intermediate; the result splits along the
// channel axis into four equal operand groups, in fixed order: left and
// right geometric product operands, then left and right join operands,
// each size_channels_intermediate/2 wide. The two operation results are
// concatenated along the channel axis and passed through a final
// equivariant linear projection back to the hidden width.
type Bilinear struct {
	Config  ModelConfig
	ProjBil *nn.EquiLinear
	ProjOut *nn.EquiLinear
}

// NewBilinear creates the geometric bilinear sub-layer. It fails with a
// configuration error when size_channels_intermediate is odd, because the
// four-way equal split would be impossible; the check happens here, not as
// a deferred runtime shape error.
func NewBilinear(config ModelConfig) (*Bilinear, error) {
	if config.SizeChannelsIntermediate%2 != 0 {
		return nil, fmt.Errorf("bilinear: size_channels_intermediate must be even, got %d",
			config.SizeChannelsIntermediate)
	}

	projBil, err := nn.NewEquiLinear(config.SizeChannelsHidden, config.SizeChannelsIntermediate*2)
	if err != nil {
		return nil, fmt.Errorf("bilinear: %w", err)
	}
	projOut, err := nn.NewEquiLinear(config.SizeChannelsIntermediate, config.SizeChannelsHidden)
	if err != nil {
		return nil, fmt.Errorf("bilinear: %w", err)
	}

	return &Bilinear{
		Config:  config,
		ProjBil: projBil,
		ProjOut: projOut,
	}, nil
}

// Forward computes the geometric bilinear sub-layer. The optional reference
// tensor orients the equivariant join; nil leaves the join unscaled.
//
// Input shape: (..., size_channels_hidden, 16)
// Output shape: (..., size_channels_hidden, 16)
func (b *Bilinear) Forward(x, reference *tensor.Tensor) (*tensor.Tensor, error) {
	expanded, err := b.ProjBil.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("bilinear expansion: %w", err)
	}

	sizeInter := b.Config.SizeChannelsIntermediate / 2
	channelDim := expanded.NumDims() - 2

	lg, err := expanded.Narrow(channelDim, 0, sizeInter)
	if err != nil {
		return nil, fmt.Errorf("bilinear split: %w", err)
	}
	rg, err := expanded.Narrow(channelDim, sizeInter, sizeInter)
	if err != nil {
		return nil, fmt.Errorf("bilinear split: %w", err)
	}
	lj, err := expanded.Narrow(channelDim, 2*sizeInter, sizeInter)
	if err != nil {
		return nil, fmt.Errorf("bilinear split: %w", err)
	}
	rj, err := expanded.Narrow(channelDim, 3*sizeInter, sizeInter)
	if err != nil {
		return nil, fmt.Errorf("bilinear split: %w", err)
	}

	product, err := pga.GeometricProduct(lg, rg)
	if err != nil {
		return nil, fmt.Errorf("bilinear geometric product: %w", err)
	}
	joined, err := pga.EquiJoin(lj, rj, reference)
	if err != nil {
		return nil, fmt.Errorf("bilinear join: %w", err)
	}

	combined, err := tensor.ConcatDim([]*tensor.Tensor{product, joined}, channelDim)
	if err != nil {
		return nil, fmt.Errorf("bilinear concat: %w", err)
	}

	return b.ProjOut.Forward(combined)
}
