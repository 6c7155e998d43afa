package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/search"
)

// NewAddCmd creates the 'add' command for appending a record to the catalog.
func NewAddCmd(opts *Options) *cobra.Command {
	var (
		id          int
		description string
		category    string
		targetURL   string
		tags        []string
		keywords    []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a record to the catalog",
		Long: fmt.Sprintf(`Append a record to the catalog file.

The id defaults to one more than the highest id in the catalog. Category is
one of: %s.`, categoryList()),
		Example: `  catalog-search add "Solar atlas" --category dataset --tag solar --tag energy
  catalog-search add 光伏发电入门 -c course -u /courses/9 -k photovoltaic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := search.Record{
				ID:          id,
				Title:       args[0],
				Description: description,
				Category:    search.Category(strings.ToLower(strings.TrimSpace(category))),
				TargetURL:   targetURL,
				Tags:        tags,
				Keywords:    keywords,
			}
			return runAdd(cmd, opts, rec)
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Record id (default next free id)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Record description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Record category (required)")
	cmd.Flags().StringVarP(&targetURL, "url", "u", "", "Target URL")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Keyword (repeatable)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *Options, rec search.Record) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	if rec.ID == 0 {
		rec.ID = a.store.NextID()
	}
	if err := a.store.Add(rec); err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}
	if err := a.store.Save(a.cfg.Catalog.Path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added record %d '%s' to %s\n", rec.ID, rec.Title, a.cfg.Catalog.Path)
	return nil
}

func categoryList() string {
	names := make([]string, 0, len(search.Categories()))
	for _, c := range search.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
