package cli

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/vitalvas/swaggerpage/apidoc"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an OpenAPI document",
		Long:  "Load an OpenAPI document in JSON or YAML form and validate it. The command fails when the document is invalid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	loader := openapi3.NewLoader()
	loader.Context = cmd.Context()

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("validate: load %s: %w", path, err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return fmt.Errorf("validate: %s: %w", path, err)
	}

	commandLogger(cmd).Info("document is valid", "path", path, "paths", doc.Paths.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid OpenAPI %s document\n", path, doc.OpenAPI)
	return nil
}

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config <file>",
		Short: "Check a documentation page config file",
		Long:  "Load a YAML documentation page config and check its fields. Unknown keys are rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := apidoc.LoadPageConfig(args[0])
			if err != nil {
				return fmt.Errorf("check-config: %w", err)
			}

			page := apidoc.NewPage(cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: page %q served as %s\n", args[0], page.Title(), page.Filename())
			return nil
		},
	}
}
