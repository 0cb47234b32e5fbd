package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// cheifidea migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables or collection indexes of the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot("cheifidea-migrate")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Preparing %s store…\n", a.cfg.StoreDriver)
		if err := a.migrate(context.Background()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Store is ready.")
		return nil
	},
}
