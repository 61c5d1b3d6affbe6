// Package cli provides the command-line interface for spritetint.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/spritetint/internal/version"
)

// Environment variables that override flag defaults.
const (
	EnvCacheDir    = "SPRITETINT_CACHE_DIR"
	EnvLightColour = "SPRITETINT_LIGHT_COLOUR"
	EnvDarkColour  = "SPRITETINT_DARK_COLOUR"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spritetint",
		Short: "Build theme-aware SVG logo sprites",
		Long: `spritetint assembles logos and icons into combined SVG documents whose
colours follow the page theme.

Every fill and stroke is moved onto currentColor, with the original
light/dark structure kept as up to three opacity tiers. Bitmaps are embedded
unchanged behind greyscale filters for light and dark backgrounds.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newSheetCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger builds the run logger from the persistent verbosity flags.
// Logs go to the command's error stream.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}

	out := cmd.ErrOrStderr()
	return hclog.New(&hclog.LoggerOptions{
		Name:   "spritetint",
		Output: out,
		Level:  level,
		Color:  colorFor(out),
	})
}

// colorFor enables colour only when w is a terminal.
func colorFor(w io.Writer) hclog.ColorOption {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return hclog.AutoColor
	}
	return hclog.ColorOff
}

// envOr returns the environment value of key, or def when unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
