package cmd

import (
	"fmt"
	"os"

	"github.com/memeforge/memeforge/internal/config"
	"github.com/spf13/cobra"
)

var swapCmd = &cobra.Command{
	Use:   "swap <image-url>",
	Short: "Face-swap a single image URL",
	Long: `Download the image at the given URL, run face detection and the
quality gate, swap every qualifying face with the reference face and
save the result to the artifact store.`,
	Args: cobra.ExactArgs(1),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().String("reference", "", "Override the reference face image path")
}

func runSwap(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if ref := mustGetString(cmd, "reference"); ref != "" {
		cfg.FaceEngine.ReferenceFacePath = ref
	}

	transformer, err := buildTransformer(cfg, false)
	if err != nil {
		return err
	}

	result := transformer.TransformURL(cmd.Context(), args[0])
	if !result.Success() {
		fmt.Fprintf(os.Stderr, "Swap failed: %s\n", result.Outcome)
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", result.Err)
		}
		os.Exit(1)
	}

	fmt.Printf("Swapped image saved to %s\n", result.Artifact)
	return nil
}
