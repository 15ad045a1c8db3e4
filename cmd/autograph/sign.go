package main

import (
	"os"

	"gioui.org/app"
	"github.com/esimov/autograph"
	"github.com/spf13/cobra"
)

func newSignCmd() *cobra.Command {
	var (
		width, height int
		dir           string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Open the signing window",
		Long:  `Opens a window with a drawing surface and a name field. The composed signature is saved into the --out folder.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context())

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			s, err := autograph.NewSession(width, height)
			if err != nil {
				return err
			}
			gui := autograph.NewGUI(s, dir)

			// Gio needs the main goroutine: the window events are processed in a separate one.
			go func() {
				if err := gui.Run(); err != nil {
					logger.Error("Window closed", "err", err)
					os.Exit(1)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 600, "drawing surface width")
	cmd.Flags().IntVar(&height, "height", 200, "drawing surface height")
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "folder the signature is saved into")

	return cmd
}
