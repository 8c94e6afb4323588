package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/altinukshini/enablehub/internal/catalog"
	"github.com/altinukshini/enablehub/internal/model"
	"github.com/altinukshini/enablehub/internal/search"
)

var (
	searchJSON  bool
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog without opening the TUI",
	Long: `Search the catalog the same way the command palette does.

Examples:
  enablehub search roi                 # Matching actions and items
  enablehub search --json playbook     # Output as JSON
  enablehub search -n 3 pricing        # At most 3 items`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of items (0 for all)")
}

type searchItem struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Category model.Category `json:"category"`
	Path     string         `json:"path,omitempty"`
}

type searchAction struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Shortcut string `json:"shortcut,omitempty"`
}

type searchResponse struct {
	Query     string         `json:"query"`
	Actions   []searchAction `json:"actions"`
	Items     []searchItem   `json:"items"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	c, _, err := loadCatalog(cmd.Context(), logger)
	if err != nil {
		return err
	}

	resp := searchCatalog(c, strings.Join(args, " "), searchLimit)
	logger.Debug("search", "query", resp.Query, "items", resp.Total)

	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		return enc.Encode(resp)
	}

	out := cmd.OutOrStdout()
	if len(resp.Actions) == 0 && len(resp.Items) == 0 {
		fmt.Fprintf(out, "No results for %q.\n", resp.Query)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, a := range resp.Actions {
		fmt.Fprintf(w, "action\t%s\t%s\n", a.Title, a.Shortcut)
	}
	for _, it := range resp.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Category, it.Title, it.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if resp.Truncated {
		fmt.Fprintf(out, "... %d more, use --limit 0 to show all\n", resp.Total-len(resp.Items))
	}
	return nil
}

func searchCatalog(c *catalog.Catalog, query string, limit int) searchResponse {
	engine := search.New()

	quick := make([]model.QuickAction, 0, len(c.Actions))
	for _, a := range c.Actions {
		quick = append(quick, model.QuickAction{ID: a.ID, Title: a.Title, Description: a.Description, Shortcut: a.Shortcut})
	}

	resp := searchResponse{Query: query, Actions: []searchAction{}, Items: []searchItem{}}
	for _, a := range engine.FilterActions(query, quick) {
		resp.Actions = append(resp.Actions, searchAction{ID: a.ID, Title: a.Title, Shortcut: a.Shortcut})
	}

	results := engine.Search(query, c.Items)
	resp.Total = len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
		resp.Truncated = true
	}
	for _, it := range results {
		resp.Items = append(resp.Items, searchItem{ID: it.ID, Title: it.Title, Category: it.Category, Path: it.Path})
	}
	return resp
}
