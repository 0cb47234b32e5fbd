package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

// cheifidea admin create
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot("cheifidea-admin")
		if err != nil {
			return err
		}
		defer a.Close()

		accounts := service.NewAccountService(a.store, a.store.Unit(), auth.NewIssuer(a.cfg.Auth))
		account, err := accounts.CreateAdmin(context.Background(), service.Credentials{
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			if details := apperr.Details(err); len(details) > 0 {
				return fmt.Errorf("%s: %s", apperr.Message(err), strings.Join(details, "; "))
			}
			return err
		}
		fmt.Printf("Created admin %s (%s)\n", account.Email, account.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
}
