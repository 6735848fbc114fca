package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/pixelpet/internal/config"
	"github.com/erazemk/pixelpet/internal/db"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/service"
)

const generatedPasswordLength = 16

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath(cmd), cmd.Flags())
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.DB); err == nil {
			return fmt.Errorf("database %s already exists", cfg.DB)
		}

		username, _ := cmd.Flags().GetString("user")
		password, err := initDatabase(cmd.Context(), cfg.DB, username)
		if err != nil {
			return err
		}
		printInitResult(cmd, cfg.DB, username, password)
		return nil
	},
}

func init() {
	initCmd.Flags().StringP("user", "u", "admin", "admin username")
}

// initDatabase creates a new database, ensures the schema, and creates the
// admin account. A partially created database file is removed on failure.
func initDatabase(ctx context.Context, path, adminUsername string) (password string, err error) {
	database, err := db.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		database.Close()
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := db.EnsureSchema(database); err != nil {
		return "", fmt.Errorf("ensuring schema: %w", err)
	}

	password, err = service.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return "", err
	}
	if _, err := service.CreateAccount(ctx, database, adminUsername, password, model.RoleAdmin); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(cmd *cobra.Command, dbPath, username, password string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database created: %s\n", dbPath)
	fmt.Fprintln(out, "Schema initialized.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Admin account created:")
	fmt.Fprintf(out, "  Username: %s\n", username)
	fmt.Fprintf(out, "  Password: %s\n", password)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Save this password, it cannot be recovered.")
	fmt.Fprintln(out, "It can be changed on the settings page after signing in.")
}

func configPath(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}

var errNoDatabase = errors.New("database does not exist, run pixelpet init first")
