package model

import (
	"errors"
	"fmt"

	"gatr/pkg/tensor"
)

// ErrNotImplemented marks a declared block whose forward pass is not yet
// available. Calling such a block fails loudly; it never silently returns
// zeros or the unmodified input.
var ErrNotImplemented = errors.New("model: not implemented")

// Attention is the geometric attention block with scalar channels. It is a
// declared capability of the transformer family; the equivariant attention
// computation itself is not available yet.
type Attention struct {
	Config ModelConfig
}

// NewAttention creates the attention block shell for the given
// configuration.
func NewAttention(config ModelConfig) *Attention {
	return &Attention{Config: config}
}

// Forward fails with ErrNotImplemented.
func (a *Attention) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("attention: %w", ErrNotImplemented)
}

// TransformerBlock is the declared block combining attention and the
// geometric MLP. Not available yet.
type TransformerBlock struct {
	Config ModelConfig
}

// NewTransformerBlock creates the transformer block shell.
func NewTransformerBlock(config ModelConfig) *TransformerBlock {
	return &TransformerBlock{Config: config}
}

// Forward fails with ErrNotImplemented.
func (b *TransformerBlock) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("transformer block: %w", ErrNotImplemented)
}

// Transformer is the declared full network. Not available yet.
type Transformer struct {
	Config ModelConfig
}

// NewTransformer creates the transformer shell.
func NewTransformer(config ModelConfig) *Transformer {
	return &Transformer{Config: config}
}

// Forward fails with ErrNotImplemented.
func (t *Transformer) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("transformer: %w", ErrNotImplemented)
}
