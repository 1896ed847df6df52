package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "memeforge",
	Short: "A face-swap meme generator fed by trending posts",
	Long: `MemeForge pulls trending image posts from Reddit, filters them for
safety, swaps the faces in them with a reference face using an
InsightFace sidecar, and serves the results over a small HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
