package main

import (
	"fmt"

	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/spf13/cobra"
)

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newCreateAdminCmd(e))
	return cmd
}

func newCreateAdminCmd(e *env) *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				return fmt.Errorf("--password is required")
			}
			users := service.NewUserService(
				repository.NewUserRepository(e.db),
				auth.NewTokenManager(&e.cfg.Auth),
				e.log,
			)
			user, err := users.CreateAdmin(systemContext(cmd.Context()), email, password, firstName, lastName)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
