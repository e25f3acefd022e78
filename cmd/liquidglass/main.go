package main

import (
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/richinsley/liquidglass/options"
)

func init() {
	// GLFW and EGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func newRootCommand() *cobra.Command {
	opts := options.Defaults()

	rootCmd := &cobra.Command{
		Use:           "liquidglass",
		Short:         "Liquid glass effect sandbox and adaptive colour tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if *opts.Verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(opts.ConfigFile, "config", *opts.ConfigFile, "YAML effect configuration file")
	rootCmd.PersistentFlags().BoolVarP(opts.Verbose, "verbose", "v", *opts.Verbose, "Enable debug logging")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newRecordCommand(opts))
	rootCmd.AddCommand(newColorsCommand(opts))
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
