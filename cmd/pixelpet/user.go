package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/pixelpet/internal/config"
	"github.com/erazemk/pixelpet/internal/db"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account and print its generated password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath(cmd), cmd.Flags())
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.DB); os.IsNotExist(err) {
			return errNoDatabase
		}

		database, err := db.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := db.EnsureSchema(database); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}

		role, _ := cmd.Flags().GetString("role")
		password, err := service.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return err
		}
		u, err := service.CreateAccount(cmd.Context(), database, args[0], password, role)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Account created:\n  Username: %s\n  Role:     %s\n  Password: %s\n", u.Username, u.Role, password)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringP("role", "r", model.RolePlayer, "account role (player or admin)")
	userCmd.AddCommand(userAddCmd)
}
