package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kingrea/autoselect/internal/autoselect"
	"github.com/kingrea/autoselect/internal/catalog"
	"github.com/kingrea/autoselect/internal/config"
	"github.com/kingrea/autoselect/internal/logbook"
	"github.com/kingrea/autoselect/internal/logging"
	"github.com/kingrea/autoselect/internal/remote"
	"github.com/kingrea/autoselect/internal/tui"
)

const serverLogName = "server.log"

// NewCLI builds the root command and its subcommands.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autoselect",
		Short: "Pick items from a searchable catalog",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}
	rootCmd.PersistentFlags().StringP("dir", "C", "", "Project directory (defaults to the working directory)")

	cobra.EnableCommandSorting = false

	formCmd := &cobra.Command{
		Use:   "form",
		Short: "Fill the configured fields",
		Args:  cobra.NoArgs,
		RunE:  runForm,
	}

	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve the catalog over HTTP",
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}

	itemsCmd := &cobra.Command{
		Use:   "items [filter]",
		Short: "List catalog items",
		Long:  "List catalog items, fuzzy-ranked against filter when one is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runItems,
	}
	itemsCmd.Flags().IntP("limit", "n", catalog.DefaultLimit, "Maximum number of items to print")

	rootCmd.AddCommand(formCmd, serveCmd, itemsCmd)
	return rootCmd
}

// loadConfig initializes .autoselect in the project directory and loads it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}
	if err := config.InitDir(dir); err != nil {
		return nil, fmt.Errorf("initializing %s directory: %w", config.ProjectDirName, err)
	}
	return config.NewConfig(dir)
}

// openSource returns the configured search backend. The catalog is returned
// separately when it backs the source so callers can watch it.
func openSource(cfg *config.Config, logger catalog.Logger) (autoselect.Source, *catalog.Catalog, error) {
	switch cfg.Project.Source.Kind {
	case config.SourceRemote:
		client, err := remote.New(cfg.Project.Source.URL)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	default:
		cat, err := openCatalog(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return cat, cat, nil
	}
}

func openCatalog(cfg *config.Config, logger catalog.Logger) (*catalog.Catalog, error) {
	opts := []catalog.Option{catalog.WithLogger(logger)}
	if limit := cfg.Project.Server.Limit; limit > 0 {
		opts = append(opts, catalog.WithLimit(limit))
	}
	return catalog.Open(cfg.CatalogPath(), opts...)
}

func watchCatalog(ctx context.Context, cat *catalog.Catalog, logger *logging.Logger) {
	if cat == nil {
		return
	}
	go func() {
		if err := cat.Watch(ctx); err != nil {
			logger.Printf("catalog watch stopped: %v", err)
		}
	}()
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lb, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogsDir(), serverLogName)
	if err != nil {
		return err
	}
	defer logger.Close()

	src, cat, err := openSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	watchCatalog(ctx, cat, logger)

	app, err := tui.NewApp(cfg, src,
		tui.WithLogbook(lb),
		tui.WithEditorOptions(autoselect.WithContext(ctx)),
	)
	if err != nil {
		return err
	}

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	if !app.Submitted() {
		return nil
	}
	printValues(cmd.OutOrStdout(), app)
	return nil
}

func printValues(out io.Writer, app *tui.App) {
	values := app.Values()
	var data [][]string
	for _, f := range app.Fields() {
		id, ok := values[f.Name]
		if !ok {
			data = append(data, []string{f.Name, "", ""})
			continue
		}
		data = append(data, []string{f.Name, id.String(), f.Editor.Text()})
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"FIELD", "ID", "TITLE"})
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
