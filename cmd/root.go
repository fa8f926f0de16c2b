package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

var captureDir string

var rootCmd = &cobra.Command{
	Use:   "fileflow-web",
	Short: "A web dashboard for the FileFlow file management service",
	Long: `FileFlow Web is a browser dashboard in front of a FileFlow backend.
It signs users in, lets them pick an active project, and browses that
project's files and users with paginated lists.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Output: os.Stderr,
		Pretty: cfg.Log.Pretty,
	})
}
