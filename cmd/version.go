package cmd

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata, set by -ldflags at compile time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// printVersion falls back to the VCS revision stamped by the Go toolchain
// when no commit was passed through ldflags.
func printVersion(w io.Writer) {
	commit := CommitSHA
	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && commit == "unknown" {
				commit = s.Value
			}
		}
	}

	fmt.Fprintf(w, "fileflow-web %s\n", Version)
	fmt.Fprintf(w, "  Commit: %s\n", commit)
	fmt.Fprintf(w, "  Built:  %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:     %s\n", goVersion)
}
