package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/display"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync SOURCE DEST",
		Short: MsgSyncShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := &ptermReporter{}
			c, err := newConfigSource(args[0], args[1], reporter)
			if err != nil {
				reportError(err)
				return err
			}

			if err := c.Sync(); err != nil {
				reportError(err)
				return err
			}

			if reporter.mutations == 0 {
				pterm.Info.Println(MsgNothingToDo)
			} else {
				pterm.Success.Printfln(MsgSyncedFormat, reporter.mutations)
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check SOURCE DEST",
		Short: MsgCheckShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newConfigSource(args[0], args[1], &ptermReporter{})
			if err != nil {
				reportError(err)
				return err
			}

			if err := c.Analyze(); err != nil {
				reportError(err)
				return err
			}
			if err := c.Validate(); err != nil {
				reportError(err)
				return err
			}

			entries := 0
			c.Walk(func(string, actions.Action) { entries++ })
			pterm.Success.Printfln(MsgCheckOkFormat, entries)
			return nil
		},
	}
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree SOURCE DEST",
		Short: MsgTreeShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}

			c, err := newConfigSource(args[0], args[1], &ptermReporter{})
			if err != nil {
				reportError(err)
				return err
			}

			if err := c.Analyze(); err != nil {
				reportError(err)
				return err
			}

			renderer := display.NewRenderer(colorEnabled())
			fmt.Print(renderer.Tree(c))
			return nil
		},
	}
}
