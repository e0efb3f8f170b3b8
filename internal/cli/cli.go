package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/specialistvlad/nfcompose/internal/app"
	"github.com/specialistvlad/nfcompose/internal/compiler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const (
	envPrefix      = "NFCOMPOSE"
	configFileName = ".nfcompose"
)

// command carries the state shared by every subcommand of one invocation.
type command struct {
	v       *viper.Viper
	outW    io.Writer
	logW    io.Writer
	appOpts []app.Option
}

// Execute runs the command line in args. User-facing output goes to outW and
// logs to logW. Every returned error is an *ExitError.
func Execute(ctx context.Context, outW, logW io.Writer, args []string, opts ...app.Option) error {
	slog.Debug("CLI parser started.")
	c := &command{v: viper.New(), outW: outW, logW: logW, appOpts: opts}

	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(outW)

	if err := root.ExecuteContext(ctx); err != nil {
		return toExitError(err)
	}
	return nil
}

func (c *command) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nfcompose",
		Short: "Compile connection lists into Nextflow workflows",
		Long: `nfcompose assembles bioinformatics processes placed on lanes into a
single Nextflow workflow, wiring main, secondary and status channels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default is ./.nfcompose.yaml)")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringSlice("catalog", nil, "Directory with extra process manifests; repeatable.")
	flags.Bool("no-color", false, "Disable colored output")

	root.AddCommand(c.newBuildCmd())
	root.AddCommand(c.newListCmd())
	root.AddCommand(c.newTreeCmd())
	root.AddCommand(c.newInspectCmd())
	return root
}

// initConfig binds the flags of the running command, then layers the config
// file and NFCOMPOSE_* environment variables beneath them.
func (c *command) initConfig(cmd *cobra.Command) error {
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if cfgFile := c.v.GetString("config"); cfgFile != "" {
		c.v.SetConfigFile(cfgFile)
	} else {
		c.v.SetConfigName(configFileName)
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
	}
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return &ExitError{Code: 2, Message: fmt.Sprintf("failed to read config file: %v", err)}
		}
	}

	if c.v.GetBool("no-color") {
		color.NoColor = true
	}
	slog.Debug("Configuration loaded.", "config_file", c.v.ConfigFileUsed())
	return nil
}

// appConfig validates the bound values into an app.Config.
func (c *command) appConfig() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		PipelinePath:     c.v.GetString("pipeline"),
		Recipe:           c.v.GetString("recipe"),
		OutputPath:       c.v.GetString("output"),
		CatalogDirs:      c.v.GetStringSlice("catalog"),
		LogFormat:        strings.ToLower(c.v.GetString("log-format")),
		LogLevel:         strings.ToLower(c.v.GetString("log-level")),
		AutoStatus:       c.v.GetBool("auto-status"),
		NoConfigs:        c.v.GetBool("no-configs"),
		NoExport:         c.v.GetBool("no-export"),
		BroadcastURL:     c.v.GetString("broadcast"),
		BroadcastTimeout: c.v.GetDuration("broadcast-timeout"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

// newApp builds an App for the current invocation.
func (c *command) newApp(cfg *app.Config, extra ...app.Option) *app.App {
	opts := append(append([]app.Option{}, c.appOpts...), extra...)
	return app.NewApp(c.outW, c.logW, cfg, opts...)
}

// pipelineSource stores a positional pipeline argument unless a flag or the
// config file already named one.
func (c *command) pipelineSource(args []string) {
	if len(args) > 0 && c.v.GetString("pipeline") == "" {
		c.v.Set("pipeline", args[0])
	}
}

// usageArgs turns argument count errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		return nil
	}
}

// toExitError maps err to an exit code: 2 for usage and configuration
// problems, 1 for everything else.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var cfgErr *compiler.ConfigurationError
	if errors.As(err, &cfgErr) || strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
