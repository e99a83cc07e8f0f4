package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalvas/swaggerpage/jsonschema"
	"github.com/vitalvas/swaggerpage/openapi"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// localRefPrefixes are rewritten to point at the converted components.
var localRefPrefixes = []string{"#/definitions/", "#/$defs/"}

// ConvertConfig captures the options for the convert command.
type ConvertConfig struct {
	Input  string
	Format string
	Strict bool
}

// ConvertResult is the document printed by the convert command.
type ConvertResult struct {
	Schema     *openapi.SchemaRef `json:"schema"`
	Components *ConvertComponents `json:"components,omitempty"`
}

// ConvertComponents holds the converted definitions.
type ConvertComponents struct {
	Schemas map[string]*openapi.SchemaRef `json:"schemas"`
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert a JSON Schema document into an OpenAPI 3.0 schema",
		Long:  "Convert a JSON Schema document into an OpenAPI 3.0 schema. Definitions become component schemas and local references are rewritten to point at them. The document is read from stdin when no file or \"-\" is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &ConvertConfig{Input: "-"}
			if len(args) == 1 {
				cfg.Input = args[0]
			}

			var err error
			if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
				return err
			}
			if cfg.Strict, err = cmd.Flags().GetBool("strict"); err != nil {
				return err
			}

			return runConvert(cmd, cfg)
		},
	}

	cmd.Flags().StringP("format", "f", formatJSON, "Output format: json or yaml")
	cmd.Flags().Bool("strict", false, "Check the document against its meta-schema first")

	return cmd
}

func runConvert(cmd *cobra.Command, cfg *ConvertConfig) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format != formatJSON && format != formatYAML {
		return newUsageError(fmt.Sprintf("convert: unknown format %q (want json or yaml)", cfg.Format))
	}

	data, err := readInput(cmd.InOrStdin(), cfg.Input)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	load := jsonschema.Parse
	if cfg.Strict {
		load = jsonschema.Load
	}
	schema, err := load(data)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	result := ConvertSchema(schema, commandLogger(cmd))

	var out []byte
	if format == formatYAML {
		out, err = openapi.MarshalYAML(result)
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("convert: encode result: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// ConvertSchema converts s and its definitions. Local references are
// rewritten to the component namespace before conversion.
func ConvertSchema(s *jsonschema.Schema, logger openapi.Logger) *ConvertResult {
	for _, prefix := range localRefPrefixes {
		jsonschema.RewriteRefs(s, prefix, jsonschema.DefaultRefPrefix)
	}

	defs := jsonschema.NewDefinitions()
	if s.Object != nil {
		for name, def := range s.Object.Definitions {
			defs.Set(name, def)
		}
		root := *s.Object
		root.Definitions = nil
		s = jsonschema.FromObject(&root)
	}

	conv := openapi.NewConverter(logger)
	result := &ConvertResult{Schema: conv.Convert(s)}
	if schemas := conv.ConvertDefinitions(defs); len(schemas) > 0 {
		result.Components = &ConvertComponents{Schemas: schemas}
	}
	return result
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
