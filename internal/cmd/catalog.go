package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/altinukshini/enablehub/internal/catalog"
)

var exportFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate content catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check catalog files for errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			c, err := catalog.LoadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				continue
			}
			fmt.Fprintf(out, "%s: ok (%d items, %d actions)\n", path, len(c.Items), len(c.Actions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d catalogs invalid", failed, len(args))
		}
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the active catalog",
	Long: `Print the catalog enablehub would load with the current flags.

Examples:
  enablehub catalog export                      # Built-in catalog as TOML
  enablehub catalog export --format yaml -R acme/enablement`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		c, _, err := loadCatalog(cmd.Context(), logger)
		if err != nil {
			return err
		}
		data, err := catalog.Encode(c, catalog.Format(exportFormat))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List cached remote catalogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cc, err := openCache()
		if err != nil {
			return err
		}
		entries, err := cc.ListEntries()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintf(out, "No cached catalogs in %s\n", cc.Dir())
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REPO\tPATH\tREF\tITEMS\tSIZE\tSTORED")
		for _, e := range entries {
			ref := e.Ref
			if ref == "" {
				ref = "HEAD"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dB\t%s\n", e.Repo, e.CacheMeta.Path, ref, e.Items, e.Size, e.StoredAt.Format(time.DateTime))
		}
		return w.Flush()
	},
}

var catalogCacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached remote catalogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cc, err := openCache()
		if err != nil {
			return err
		}
		if err := cc.DeleteAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog cache cleared")
		return nil
	},
}

func init() {
	catalogExportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(catalog.FormatTOML), "output format: toml or yaml")

	catalogCacheCmd.AddCommand(catalogCacheClearCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogCacheCmd)
}
