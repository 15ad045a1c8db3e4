// Command autograph captures handwritten signatures and composes them with the signer's name.
//
// Usage:
//
//	autograph sign                          open the signing window
//	autograph compose --in scan.jpg --name "Ana Maria" --knockout 180
//	autograph cache install --config cache.toml
//	autograph serve --addr :8080 --config cache.toml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

const helpBanner = `
┌─┐┬ ┬┌┬┐┌─┐┌─┐┬─┐┌─┐┌─┐┬ ┬
├─┤│ │ │ │ ││ ┬├┬┘├─┤├─┘├─┤
┴ ┴└─┘ ┴ └─┘└─┘┴└─┴ ┴┴  ┴ ┴

Handwritten signature capture.
    Version: %s
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "autograph",
		Short:        "Capture a handwritten signature and compose it with the signer's name",
		Long:         fmt.Sprintf(helpBanner, version),
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSignCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newServeCmd())

	return root
}
