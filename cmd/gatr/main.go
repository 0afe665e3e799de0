package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gatr/pkg/model"
	"gatr/pkg/nn"
	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	batch := flag.Int("batch", 2, "Batch size")
	points := flag.Int("points", 16, "Number of points per cloud")
	hidden := flag.Int("hidden", 32, "Hidden channel count")
	intermediate := flag.Int("intermediate", 32, "Intermediate channel count for the bilinear sub-layer (must be even)")
	blocks := flag.Int("blocks", 4, "Number of geometric MLP blocks")
	seed := flag.Int64("seed", 42, "Random seed for weights and inputs")

	flag.Parse()

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("      Geometric MLP Forward Pass (PGA)")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	config := model.DefaultModelConfig()
	config.SizeContext = *points
	config.SizeChannelsHidden = *hidden
	config.SizeChannelsIntermediate = *intermediate

	if err := config.Validate(); err != nil {
		fail("Invalid configuration: %v", err)
	}

	fmt.Printf("Model Configuration:\n")
	fmt.Printf("  Context Size: %d\n", config.SizeContext)
	fmt.Printf("  Input Channels: %d\n", config.SizeChannelsIn)
	fmt.Printf("  Hidden Channels: %d\n", config.SizeChannelsHidden)
	fmt.Printf("  Intermediate Channels: %d\n", config.SizeChannelsIntermediate)
	fmt.Printf("  MLP Blocks: %d\n", *blocks)
	fmt.Println()

	rng := rand.New(rand.NewSource(*seed))

	embedding, err := model.NewEmbedding(config)
	if err != nil {
		fail("Error creating embedding: %v", err)
	}
	embedding.Proj.InitXavier(rng)

	mlps := make([]*model.MLP, *blocks)
	for i := range mlps {
		mlp, err := model.NewMLP(config)
		if err != nil {
			fail("Error creating MLP block %d: %v", i, err)
		}
		bil := mlp.Bil.(*model.Bilinear)
		bil.ProjBil.InitXavier(rng)
		bil.ProjOut.InitXavier(rng)
		mlp.ProjOut.(*nn.EquiLinear).InitXavier(rng)
		mlps[i] = mlp
	}

	// Random point cloud in [-1, 1)^3.
	cloud := tensor.NewTensor([]int{*batch, *points, 3})
	for i := range cloud.Data {
		cloud.Data[i] = 2*rng.Float64() - 1
	}

	encoded, err := pga.EncodePoint(cloud)
	if err != nil {
		fail("Error encoding points: %v", err)
	}

	// Single input channel; the encoded points double as the join reference.
	x := encoded.Reshape([]int{*batch, *points, 1, pga.NumBlades})
	reference := x

	x, err = embedding.Forward(x)
	if err != nil {
		fail("Error in embedding: %v", err)
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("              Running Blocks...")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	for i, mlp := range mlps {
		x, err = mlp.Forward(x, reference)
		if err != nil {
			fail("Error in MLP block %d: %v", i, err)
		}
		fmt.Printf("  Block %d output shape: %v\n", i, x.Shape)
	}
	fmt.Println()

	// Decode the first hidden channel as scalar and translation readouts.
	channelDim := x.NumDims() - 2
	head, err := x.Narrow(channelDim, 0, 1)
	if err != nil {
		fail("Error narrowing output: %v", err)
	}

	scalars, err := pga.DecodeScalar(head)
	if err != nil {
		fail("Error decoding scalars: %v", err)
	}
	translations, err := pga.DecodeTranslation(head, true, pga.DefaultDecodeThreshold)
	if err != nil {
		fail("Error decoding translations: %v", err)
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                Output")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()
	fmt.Printf("Scalar readout:      %v\n", scalars)
	fmt.Printf("Translation readout: %v\n", translations)
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("              Statistics")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  Points encoded:   %d\n", *batch**points)
	fmt.Printf("  Hidden tensor:    %v\n", x.Shape)
	fmt.Printf("  Blocks executed:  %d\n", *blocks)
}
