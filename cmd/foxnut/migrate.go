package main

import (
	"foxnut/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Tables are created in registry order, parents before children, followed
by the role/user/server/command join tables.

Example:
  foxnut migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(database.GetDB(), registry)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
