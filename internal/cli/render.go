package cli

import (
	"os"

	"github.com/quizzler/deployctl/internal/output"
	"github.com/quizzler/deployctl/internal/template"
	"github.com/spf13/cobra"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the TLS site configuration without applying it",
	Long: `Render the nginx site configuration that provisioning would install,
using the current deploy configuration.

By default the rendered document is printed to stdout. With --out it is
written to a file instead. Nothing is installed and no services are touched.

Examples:
  deployctl render
  deployctl render --out /tmp/default.conf`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the rendered document to this file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadDeployConfig()
	if err != nil {
		return err
	}

	doc, err := template.Render(template.SiteFromConfig(cfg))
	if err != nil {
		return err
	}

	if renderOut == "" {
		output.Print("%s", doc)
		return nil
	}

	if err := os.WriteFile(renderOut, []byte(doc), 0644); err != nil {
		return err
	}
	output.Success("Wrote site configuration to %s", renderOut)
	return nil
}
