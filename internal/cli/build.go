package cli

import (
	"fmt"
	"time"

	"github.com/specialistvlad/nfcompose/internal/app"
	"github.com/specialistvlad/nfcompose/internal/broadcast"
	"github.com/spf13/cobra"
)

func (c *command) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [PIPELINE]",
		Short: "Compile a pipeline into a Nextflow workflow",
		Long: `Compile a pipeline file (.hcl, .yaml, .yml or .json) or an inline recipe
into a Nextflow workflow. Companion configuration files and the DAG export
are written next to the workflow.

Recipes list processes separated by whitespace; "(" opens a fork, "|"
separates its lanes and ")" closes it:

  nfcompose build -t "integrity_coverage fastqc_trimmomatic (spades | skesa)" -o main.nf`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.pipelineSource(args)
			cfg, err := c.appConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateBuild(); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			var opts []app.Option
			if cfg.BroadcastURL != "" {
				pub, err := broadcast.NewSocketIO(broadcast.Options{
					URL:     cfg.BroadcastURL,
					Timeout: cfg.BroadcastTimeout,
				})
				if err != nil {
					return &ExitError{Code: 2, Message: err.Error()}
				}
				opts = append(opts, app.WithPublisher(pub))
			}
			a := c.newApp(cfg, opts...)

			if c.v.GetBool("watch") {
				return watch(cmd.Context(), a, watchDebounce, func(err error) {
					c.reportBuild(a, err)
				})
			}

			res, err := a.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.outW, "Wrote %s (%d processes)\n", cfg.OutputPath, len(res.Nodes)-1)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("pipeline", "p", "", "Path to the pipeline file.")
	flags.StringP("recipe", "t", "", "Inline pipeline recipe, used instead of a pipeline file.")
	flags.StringP("output", "o", "", "Path of the generated .nf workflow.")
	flags.Bool("auto-status", false, "Append a status_compiler process when the pipeline reports status.")
	flags.Bool("no-configs", false, "Do not write params, resources and containers configs.")
	flags.Bool("no-export", false, "Do not write the DAG and fork tree exports.")
	flags.BoolP("watch", "w", false, "Rebuild whenever the pipeline or a catalog file changes.")
	flags.String("broadcast", "", "socket.io URL that receives the DAG after every build.")
	flags.Duration("broadcast-timeout", 10*time.Second, "How long to wait for the broadcast viewer.")
	return cmd
}

// reportBuild prints the outcome of one watch-mode build.
func (c *command) reportBuild(a *app.App, err error) {
	if err != nil {
		fmt.Fprintf(c.outW, "Build failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.outW, "Wrote %s\n", a.Config().OutputPath)
}
