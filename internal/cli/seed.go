package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/sitemap"
	"github.com/ideaspark/wireframe/internal/typeid"
)

type seedOpts struct {
	output string
	name   string
	sample bool
}

func newSeedCmd() *cobra.Command {
	opts := seedOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "seed [sitemap.json]",
		Short: "Create a project directory with one page per sitemap entry",
		Long: `Seed writes project.json and a pages/ directory holding one document per page.
With --sample the storefront and dashboard sample project is written instead of reading a sitemap.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.sample {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			var (
				p   document.Project
				err error
			)
			if opts.sample {
				p, err = document.NewSampleProject(typeid.NewDocumentID(), opts.name)
			} else {
				p, err = projectFromSitemap(args[0], opts.name)
			}
			if err != nil {
				return err
			}

			if err := writeProject(opts.output, p); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Seeded %d pages into %s", len(p.Pages), opts.output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "project directory")
	cmd.Flags().StringVar(&opts.name, "name", "", "project name (default: sitemap file name)")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "write the sample project")

	return cmd
}

func projectFromSitemap(path, name string) (document.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Project{}, err
	}
	roots, err := sitemap.Parse(data)
	if err != nil {
		return document.Project{}, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return sitemap.ToProject(name, roots), nil
}

// writeProject stores the project manifest and each page as a standalone
// document under pages/.
func writeProject(dir string, p document.Project) error {
	data, err := document.MarshalProject(p)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, "project.json"), data); err != nil {
		return err
	}
	for _, page := range p.Pages {
		path := filepath.Join(dir, "pages", pageFile(page.Path, page.ID))
		if err := writeFileAtomic(path, document.SerializeIndent(page.Scene)); err != nil {
			return err
		}
	}
	return nil
}

// pageFile names a page document after its route: "/" is index.json and
// "/shop/cart" is shop-cart.json.
func pageFile(route, id string) string {
	name := strings.ReplaceAll(strings.Trim(route, "/"), "/", "-")
	switch {
	case route == "/":
		name = "index"
	case name == "":
		name = id
	}
	return name + ".json"
}
