package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/document"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check documents and projects for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			failed := 0
			for _, path := range args {
				summary, err := validateFile(path)
				if err != nil {
					logger.Error("invalid", "file", path, "err", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, summary)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

// validateFile decodes a project or a single document, chosen by the
// schema field.
func validateFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var head struct {
		Schema string `json:"schema"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("%w: %v", document.ErrParse, err)
	}

	if head.Schema == document.ProjectSchema {
		p, err := document.UnmarshalProject(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ok, project %q with %d pages", p.Name, len(p.Pages)), nil
	}

	s, err := document.Deserialize(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ok, %d elements on %vx%v", len(s.IDs()), s.CanvasSize.Width, s.CanvasSize.Height), nil
}
