package model

import (
	"fmt"

	"gatr/pkg/nn"
	"gatr/pkg/tensor"
)

// Embedding projects the input channel count to the hidden channel count.
//
// This is the very first equivariant linear layer of the network: exactly
// one linear map, no normalization, no nonlinearity.
type Embedding struct {
	Config ModelConfig
	Proj   *nn.EquiLinear
}

// NewEmbedding creates the embedding layer for the given configuration.
func NewEmbedding(config ModelConfig) (*Embedding, error) {
	proj, err := nn.NewEquiLinear(config.SizeChannelsIn, config.SizeChannelsHidden)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	return &Embedding{
		Config: config,
		Proj:   proj,
	}, nil
}

// Forward projects the channel axis from SizeChannelsIn to
// SizeChannelsHidden.
//
// Input shape: (..., size_channels_in, 16)
// Output shape: (..., size_channels_hidden, 16)
func (e *Embedding) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return e.Proj.Forward(x)
}
