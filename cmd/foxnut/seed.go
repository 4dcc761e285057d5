package main

import (
	"fmt"
	"os"
	"sort"

	"foxnut/internal/database"
	"foxnut/internal/services"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import inventory from a YAML file",
	Long: `Import data centers, racks, switches, servers, domains, command
aliases, roles and users from a YAML file. The whole file is imported in
one transaction; any invalid record rolls everything back.

Example:
  foxnut seed -f inventory.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := services.NewImporter(database.GetDB()).Import(cmd.Context(), f)
		if err != nil {
			return err
		}

		types := make([]string, 0, len(result.Counts))
		for typ := range result.Counts {
			types = append(types, typ)
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %d\n", typ, result.Counts[typ])
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML inventory file")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}
