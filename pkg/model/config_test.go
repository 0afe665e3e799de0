package model

import "testing"

// TestDefaultModelConfig tests that the defaults pass validation.
func TestDefaultModelConfig(t *testing.T) {
	config := DefaultModelConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
	if config.SizeChannelsHidden != 32 {
		t.Errorf("SizeChannelsHidden = %d, expected 32", config.SizeChannelsHidden)
	}
	if config.SizeChannelsIntermediate != 32 {
		t.Errorf("SizeChannelsIntermediate = %d, expected 32", config.SizeChannelsIntermediate)
	}
	if !config.NormChannelwiseRescale {
		t.Error("NormChannelwiseRescale expected true by default")
	}
}

// TestModelConfig_Validate tests the structural checks.
func TestModelConfig_Validate(t *testing.T) {
	config := DefaultModelConfig()
	config.SizeChannelsIntermediate = 5
	if err := config.Validate(); err == nil {
		t.Error("expected error for odd size_channels_intermediate")
	}

	config = DefaultModelConfig()
	config.SizeChannelsHidden = 0
	if err := config.Validate(); err == nil {
		t.Error("expected error for zero size_channels_hidden")
	}

	config = DefaultModelConfig()
	config.SizeChannelsIn = -1
	if err := config.Validate(); err == nil {
		t.Error("expected error for negative size_channels_in")
	}

	config = DefaultModelConfig()
	config.SizeContext = 0
	if err := config.Validate(); err == nil {
		t.Error("expected error for zero size_context")
	}
}
