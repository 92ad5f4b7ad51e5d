package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	verbose      bool
	patternsFile string
)

var rootCmd = &cobra.Command{
	Use:   "hexglitch",
	Short: "Corrupt AVI videos by overwriting raw frame data",
	Long: `hexglitch: A databending tool that finds the 00dc frame chunks of an AVI
file and overwrites their payload with glitch patterns, leaving the container
structure in place so players still open the result.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file with default flag values (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&patternsFile, "patterns-file", "glitch_patterns_256.json", "Pattern catalog file (builtin patterns are used if it does not exist)")
}
