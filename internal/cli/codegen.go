package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/codegen"
	"github.com/ideaspark/wireframe/internal/document"
)

func newCodegenCmd() *cobra.Command {
	var output, name string

	cmd := &cobra.Command{
		Use:   "codegen [document]",
		Short: "Print the document as a JSX component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readScene(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
				if name != "" {
					name = strings.ToUpper(name[:1]) + name[1:]
				}
			}
			code := codegen.JSX(name, s)
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), code)
				return err
			}
			return os.WriteFile(output, []byte(code), 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&name, "name", "", "component name (default: file name)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the document format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := document.JSONSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
