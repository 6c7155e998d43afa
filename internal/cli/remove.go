package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the 'remove' command for deleting catalog records.
func NewRemoveCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a record from the catalog",
		Example: `  catalog-search remove 3
  catalog-search rm 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			return runRemove(cmd, opts, id)
		},
	}

	return cmd
}

func runRemove(cmd *cobra.Command, opts *Options, id int) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Remove(id); err != nil {
		return err
	}
	if err := a.store.Save(a.cfg.Catalog.Path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed record %d\n", id)
	return nil
}
