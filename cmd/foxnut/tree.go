package main

import (
	"fmt"

	"foxnut/internal/database"
	"foxnut/internal/models"
	"foxnut/internal/services"

	"github.com/spf13/cobra"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree <type> <uuid>",
	Short: "Print a resource and its sub-resources",
	Long: `Print a resource and, recursively, its sub-resources.

Example:
  foxnut tree datacenters 6f1c...   # data center, racks, servers, ports
  foxnut tree roles 0a2b... --depth 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, ok := registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown resource type %q", args[0])
		}
		parent, ok := entry.New().(models.Parent)
		if !ok {
			return fmt.Errorf("resource type %q has no sub-resources", args[0])
		}

		inv := services.NewInventoryService(database.GetDB())
		if err := inv.Get(cmd.Context(), parent, args[1]); err != nil {
			return err
		}
		root, err := inv.Tree(cmd.Context(), parent, treeDepth)
		if err != nil {
			return err
		}
		return root.Print(cmd.OutOrStdout())
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 8, "maximum depth to expand")
	rootCmd.AddCommand(treeCmd)
}
