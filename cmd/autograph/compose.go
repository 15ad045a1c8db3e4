package main

import (
	"runtime"

	"github.com/esimov/autograph"
	"github.com/spf13/cobra"
)

// pipeName indicates that stdin/stdout is used.
const pipeName = "-"

func newComposeCmd() *cobra.Command {
	op := &autograph.Ops{PipeName: pipeName}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose an existing signature image with the signer's name",
		Long: `Places a signature image (a file, a folder of files, an URL or stdin) over the rule and the signer's name.
Scanned signatures can have the paper background removed with --knockout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context())
			op.Stderr = cmd.ErrOrStderr()

			c, err := autograph.NewCompositor()
			if err != nil {
				return err
			}
			logger.Debug("Composing", "in", op.Src, "out", op.Dst, "workers", op.Workers)
			if err := c.Execute(op); err != nil {
				logger.Error("Composition failed", "err", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&op.Src, "in", "i", pipeName, "signature image: file, folder, URL or - for stdin")
	f.StringVarP(&op.Dst, "out", "o", pipeName, "PNG file, folder or - for stdout")
	f.StringVarP(&op.Name, "name", "n", "", "signer's full name (derived from the file names in batch mode)")
	f.IntVar(&op.KnockOut, "knockout", 0, "make the pixels brighter than this luminance (1-255) transparent")
	f.IntVar(&op.Width, "width", 0, "surface width, defaults to the image width")
	f.IntVar(&op.Height, "height", 0, "surface height, defaults to the image height")
	f.IntVar(&op.Workers, "conc", runtime.NumCPU(), "number of files composed concurrently")

	return cmd
}
