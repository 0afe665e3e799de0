package model

import (
	"fmt"

	"gatr/pkg/nn"
	"gatr/pkg/tensor"
)

// Layer is a forward transformation over one multivector tensor.
type Layer interface {
	Forward(x *tensor.Tensor) (*tensor.Tensor, error)
}

// BilinearLayer is a forward transformation taking the optional join
// reference alongside the input.
type BilinearLayer interface {
	Forward(x, reference *tensor.Tensor) (*tensor.Tensor, error)
}

// MLP is the geometric MLP block without scalar channels.
//
// The block structure is fixed: one equivariant normalization, the
// geometric bilinear sub-layer, a scalar-gated GELU, and a single
// equivariant linear projection, all wrapped in a residual connection.
// The normalization can carry learnable weights, so each block owns its
// own normalization layer instead of sharing one across the network.
type MLP struct {
	Config  ModelConfig
	Norm    Layer
	Bil     BilinearLayer
	ProjOut Layer
}

// NewMLP creates the geometric MLP block for the given configuration.
func NewMLP(config ModelConfig) (*MLP, error) {
	bil, err := NewBilinear(config)
	if err != nil {
		return nil, fmt.Errorf("mlp: %w", err)
	}
	projOut, err := nn.NewEquiLinear(config.SizeChannelsHidden, config.SizeChannelsHidden)
	if err != nil {
		return nil, fmt.Errorf("mlp: %w", err)
	}

	return &MLP{
		Config:  config,
		Norm:    nn.NewEquiRMSNorm(config.SizeChannelsHidden, config.NormEps, config.NormChannelwiseRescale),
		Bil:     bil,
		ProjOut: projOut,
	}, nil
}

// Forward computes the geometric MLP block. The optional reference tensor
// orients the equivariant join inside the bilinear sub-layer.
//
// Input shape: (..., size_channels_hidden, 16)
// Output shape: (..., size_channels_hidden, 16)
func (m *MLP) Forward(x, reference *tensor.Tensor) (*tensor.Tensor, error) {
	residual := x

	x, err := m.Norm.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("mlp norm: %w", err)
	}

	x, err = m.Bil.Forward(x, reference)
	if err != nil {
		return nil, fmt.Errorf("mlp bilinear: %w", err)
	}

	gated, err := nn.ScalarGatedGELU(x)
	if err != nil {
		return nil, fmt.Errorf("mlp activation: %w", err)
	}
	x, err = m.ProjOut.Forward(gated)
	if err != nil {
		return nil, fmt.Errorf("mlp projection: %w", err)
	}

	out, err := tensor.Add(x, residual)
	if err != nil {
		return nil, fmt.Errorf("mlp residual: %w", err)
	}
	return out, nil
}
