// Package model provides the multivector-only geometric transformer blocks:
// the embedding projection, the geometric bilinear sub-layer, and the
// geometric MLP block, plus the declared (not yet available) attention
// stack. All blocks consume and produce multivector tensors of shape
// (..., channels, 16) and preserve equivariance end to end.
package model

import "fmt"

// ModelConfig holds the hyperparameters shared by all blocks. It is read at
// construction time and never mutated afterwards.
type ModelConfig struct {
	// SizeContext is the number of elements in the input sequence, e.g.,
	// the number of points in a point cloud.
	SizeContext int

	// SizeChannelsIn is the number of input channels.
	SizeChannelsIn int

	// SizeChannelsOut is the number of output channels.
	SizeChannelsOut int

	// SizeChannelsHidden is the number of hidden representation channels
	// throughout the network, i.e. the input/output channel count of every
	// block.
	SizeChannelsHidden int

	// SizeChannelsIntermediate is the number of intermediate channels for
	// the geometric bilinear operation. Must be even. Not to be confused
	// with the hidden size: it only refers to the widths used inside the
	// equivariant join and geometric product.
	SizeChannelsIntermediate int

	// NormEps is the small value preventing division by zero in the
	// normalization layers. Zero leaves the division unguarded.
	NormEps float64

	// NormChannelwiseRescale attaches learnable channel-wise rescaling
	// weights (initialized to ones) to the normalization layers.
	NormChannelwiseRescale bool
}

// DefaultModelConfig returns the default hyperparameters.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		SizeContext:              2048,
		SizeChannelsIn:           1,
		SizeChannelsOut:          1,
		SizeChannelsHidden:       32,
		SizeChannelsIntermediate: 32,
		NormEps:                  0,
		NormChannelwiseRescale:   true,
	}
}

// Validate checks if the configuration is valid and consistent.
// Returns an error if any parameters are incompatible.
func (c ModelConfig) Validate() error {
	if c.SizeContext <= 0 {
		return fmt.Errorf("size_context must be positive, got %d", c.SizeContext)
	}
	if c.SizeChannelsIn <= 0 {
		return fmt.Errorf("size_channels_in must be positive, got %d", c.SizeChannelsIn)
	}
	if c.SizeChannelsOut <= 0 {
		return fmt.Errorf("size_channels_out must be positive, got %d", c.SizeChannelsOut)
	}
	if c.SizeChannelsHidden <= 0 {
		return fmt.Errorf("size_channels_hidden must be positive, got %d", c.SizeChannelsHidden)
	}
	if c.SizeChannelsIntermediate <= 0 {
		return fmt.Errorf("size_channels_intermediate must be positive, got %d", c.SizeChannelsIntermediate)
	}
	if c.SizeChannelsIntermediate%2 != 0 {
		return fmt.Errorf("size_channels_intermediate must be even, got %d", c.SizeChannelsIntermediate)
	}
	return nil
}
