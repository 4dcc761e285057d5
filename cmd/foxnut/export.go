package main

import (
	"fmt"
	"os"

	"foxnut/internal/database"
	"foxnut/internal/services"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory to an xlsx workbook",
	Long: `Export every resource type and join table to an xlsx workbook,
one sheet per table. Password hashes are not exported.

Example:
  foxnut export -o inventory.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}

		exporter := services.NewExporter(database.GetDB(), registry)
		if err := exporter.Export(cmd.Context(), f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "inventory.xlsx", "output file")
	rootCmd.AddCommand(exportCmd)
}
