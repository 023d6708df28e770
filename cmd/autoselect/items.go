package main

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kingrea/autoselect/internal/autoselect"
	"github.com/kingrea/autoselect/internal/catalog"
	"github.com/kingrea/autoselect/internal/logging"
)

func runItems(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg, logging.NewWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	var filter string
	if len(args) > 0 {
		filter = args[0]
	}
	items, err := listItems(cmd.Context(), cat, filter, limit)
	if err != nil {
		return err
	}
	printItems(cmd.OutOrStdout(), items)
	return nil
}

// listItems searches cat with filter, widening the catalog's own cap to limit.
func listItems(ctx context.Context, cat *catalog.Catalog, filter string, limit int) ([]autoselect.Item, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit > 0 {
		cat = catalog.New(cat.Items(), catalog.WithLimit(limit))
	}
	resp, err := cat.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func printItems(out io.Writer, items []autoselect.Item) {
	var data [][]string
	for _, item := range items {
		data = append(data, []string{item.ID.String(), autoselect.DisplayTitle(item.Title)})
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "TITLE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
