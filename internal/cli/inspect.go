package cli

import (
	"fmt"

	"github.com/specialistvlad/nfcompose/internal/inspect"
	"github.com/spf13/cobra"
)

func (c *command) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [LOG]",
		Short: "Print the workflow a Nextflow run was launched with",
		Long: fmt.Sprintf(`Scan a Nextflow log, %s by default, and print the first
workflow file path it mentions.`, inspect.DefaultLogFile),
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.appConfig()
			if err != nil {
				return err
			}
			a := c.newApp(cfg)

			path := inspect.DefaultLogFile
			if len(args) > 0 {
				path = args[0]
			}
			workflow, err := inspect.WorkflowPath(a.Context(cmd.Context()), a.Fs(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.outW, workflow)
			return nil
		},
	}
}
