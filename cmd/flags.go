package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// mustFlag reads a flag defined in init(). A lookup error is a programming
// bug, so it panics.
func mustFlag[T any](cmd *cobra.Command, name string, get func(*pflag.FlagSet, string) (T, error)) T {
	val, err := get(cmd.Flags(), name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	return mustFlag(cmd, name, (*pflag.FlagSet).GetBool)
}

func mustGetInt(cmd *cobra.Command, name string) int {
	return mustFlag(cmd, name, (*pflag.FlagSet).GetInt)
}

func mustGetInt64(cmd *cobra.Command, name string) int64 {
	return mustFlag(cmd, name, (*pflag.FlagSet).GetInt64)
}

func mustGetString(cmd *cobra.Command, name string) string {
	return mustFlag(cmd, name, (*pflag.FlagSet).GetString)
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	return mustFlag(cmd, name, (*pflag.FlagSet).GetStringSlice)
}
