// Package app builds cobra commands from option structs.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"
)

// RunFunc runs the application once options are loaded and validated.
type RunFunc func() error

type App struct {
	name        string
	shortDesc   string
	description string
	envPrefix   string

	options  NamedFlagSetOptions
	runFunc  RunFunc
	args     cobra.PositionalArgs
	commands []*cobra.Command
	noConfig bool

	cfgFile string
	cmd     *cobra.Command
}

type Option func(*App)

func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) { a.options = opts }
}

func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDefaultValidArgs rejects positional arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if len(arg) > 0 {
					return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
				}
			}
			return nil
		}
	}
}

// WithCommands adds subcommands. They share the persistent flags of the root command.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(a *App) { a.commands = append(a.commands, cmds...) }
}

// WithEnvPrefix sets the prefix of environment overrides. It defaults to the upper-cased name.
func WithEnvPrefix(prefix string) Option {
	return func(a *App) { a.envPrefix = prefix }
}

// WithNoConfig drops the --config flag.
func WithNoConfig() Option {
	return func(a *App) { a.noConfig = true }
}

func NewApp(name, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
		envPrefix: strings.ToUpper(strings.ReplaceAll(name, "-", "_")),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.buildCommand()
	return a
}

// Command returns the root cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run executes the command and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Load merges config file, environment and flags into the options, then completes and validates them.
// Subcommands call it to see the same configuration as the root command.
func (a *App) Load() error {
	if a.options == nil {
		return nil
	}

	if !a.noConfig {
		if err := loadConfig(a.envPrefix, a.cfgFile, a.cmd.PersistentFlags(), a.options); err != nil {
			return err
		}
	}
	if err := a.options.Complete(); err != nil {
		return err
	}
	return a.options.Validate()
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	if a.runFunc != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			if err := a.Load(); err != nil {
				return err
			}
			return a.runFunc()
		}
	}

	fs := cmd.PersistentFlags()
	if a.options != nil {
		namedfs := a.options.Flags()
		globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
		if !a.noConfig {
			namedfs.FlagSet("global").StringVarP(&a.cfgFile, configFlagName, "c", a.cfgFile,
				"Read configuration from the specified file (toml, yaml or json).")
		}
		for _, f := range namedfs.FlagSets {
			fs.AddFlagSet(f)
		}

		cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
		cliflag.SetUsageAndHelpFunc(cmd, namedfs, cols)
	}

	for _, sub := range a.commands {
		cmd.AddCommand(sub)
	}

	a.cmd = cmd
}
