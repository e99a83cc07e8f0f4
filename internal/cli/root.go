package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vitalvas/swaggerpage/openapi"
)

// Execute runs the schemaconv CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schemaconv",
		Short:         "Convert JSON Schema documents and check OpenAPI output",
		Long:          "schemaconv converts JSON Schema documents into OpenAPI 3.0 schemas and validates OpenAPI documents and page configs.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log dropped schema keywords to stderr")

	for _, sub := range []*cobra.Command{newConvertCmd(), newValidateCmd(), newCheckConfigCmd()} {
		cmd.AddCommand(sub)
	}

	setUsageErrors(cmd)

	return cmd
}

// setUsageErrors turns flag and argument errors of cmd and its children into
// usage errors carrying the help text.
func setUsageErrors(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})
	if cmd.Args != nil {
		args := cmd.Args
		cmd.Args = func(c *cobra.Command, a []string) error {
			if err := args(c, a); err != nil {
				return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		setUsageErrors(sub)
	}
}

// commandLogger returns a logger writing to stderr when --verbose is set.
func commandLogger(cmd *cobra.Command) openapi.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return openapi.NopLogger{}
	}
	return newTextLogger(cmd.ErrOrStderr())
}

func newTextLogger(w io.Writer) openapi.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return openapi.NewSlogAdapter(slog.New(h))
}
