package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/export"
	"github.com/spf13/cobra"
)

func (c *command) newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [PIPELINE]",
		Short: "Print the lane tree of a pipeline without writing anything",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.pipelineSource(args)
			cfg, err := c.appConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateSource(); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			a := c.newApp(cfg)
			res, err := a.Compile(cmd.Context())
			if err != nil {
				return err
			}
			dag, err := export.BuildDag(res.Nodes)
			if err != nil {
				return err
			}

			fmt.Fprint(c.outW, export.Tree(dag))
			lanes := export.Lanes(res.Nodes)
			names := make([]string, len(lanes))
			for i, l := range lanes {
				names[i] = strconv.Itoa(l)
			}
			fmt.Fprintf(c.outW, "lanes: %s\n", strings.Join(names, " "))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("pipeline", "p", "", "Path to the pipeline file.")
	flags.StringP("recipe", "t", "", "Inline pipeline recipe, used instead of a pipeline file.")
	flags.Bool("auto-status", false, "Append a status_compiler process when the pipeline reports status.")
	return cmd
}
