package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear FILE...",
		Short: "Remove every tag field from the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths(args)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := confirm(fmt.Sprintf("Remove all tags from %d file(s)?", len(paths)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(warningText("Cancelled."))
					return nil
				}
			}

			sync, err := openSelection(paths)
			if err != nil {
				return err
			}
			defer sync.Close()

			return printApplyReport(sync.ClearSelected())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on the terminal. Without a terminal it
// refuses, so scripts have to pass --yes.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to clear tags without confirmation; pass --yes")
	}

	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
