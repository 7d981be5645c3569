package cmd

import (
	"fmt"
	"os"

	"github.com/cozy-creator/cropscan/internal/preprocess"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "preprocess <image>",
	Short: "Preprocess an image file and print a summary of the resulting tensor",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreprocess,
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := preprocess.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	tensor := preprocess.FromImage(img)

	shape := tensor.Shape()
	size := img.Bounds().Size()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mimetype: %s\n", mimetype.Detect(data).String())
	fmt.Fprintf(out, "format:   %s (%dx%d)\n", format, size.X, size.Y)
	fmt.Fprintf(out, "shape:    %dx%dx%d\n", shape[0], shape[1], shape[2])
	for c, name := range []string{"R", "G", "B"} {
		fmt.Fprintf(out, "mean %s:   %.4f\n", name, tensor.ChannelMean(c))
	}

	return nil
}
