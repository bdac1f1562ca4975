package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/confman/confman/internal/version"
	"github.com/confman/confman/pkg/config"
	"github.com/confman/confman/pkg/display"
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
	"github.com/confman/confman/pkg/source"
)

var (
	verbosity   int
	profilePath string
	tags        []string
	hostname    string
	options     []string
	forceSame   bool
	noColor     bool
)

// NewRootCmd builds the confman command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "confman",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Profile file supplying tags, hostname and policy (.toml or .yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&tags, "tag", nil, "Add a tag to the options bag (repeatable)")
	rootCmd.PersistentFlags().StringVar(&hostname, "hostname", "", "Override the hostname in the options bag")
	rootCmd.PersistentFlags().StringArrayVar(&options, "option", nil, "Add key=value to the options bag (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&forceSame, "force-same", false, "Replace a plain-file destination when its content matches the source")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// newConfigSource assembles a ConfigSource from the profile, the CLI
// overrides and the positional roots
func newConfigSource(src, dest string, reporter *ptermReporter) (*source.ConfigSource, error) {
	profile, err := config.Load(profilePath)
	if err != nil {
		return nil, err
	}
	if err := profile.Override(tags, hostname, options, forceSame); err != nil {
		return nil, err
	}

	return source.New(source.Params{
		Source:   src,
		Dest:     dest,
		Options:  profile.Options,
		Policy:   profile.Policy,
		Reporter: reporter,
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVerShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("confman version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}

// reportError prints a failure with its remediation hint, if any
func reportError(err error) {
	pterm.Error.Println(err.Error())
	if hint := errors.GetHint(err); hint != "" {
		pterm.Info.Println("to resolve by hand: " + hint)
	}
}

// ptermReporter prints action lines as they happen and counts the
// mutations for the closing summary
type ptermReporter struct {
	mutations int
}

func (r *ptermReporter) Mutation(format string, args ...interface{}) {
	r.mutations++
	pterm.Success.Printfln(format, args...)
}

func (r *ptermReporter) Notice(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

func colorEnabled() bool {
	return !noColor && display.ColorEnabled(os.Stdout)
}
