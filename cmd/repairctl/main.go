// Command repairctl is the operator CLI for the repair API database:
// bootstrapping admins, inspecting number sequences and running jobs by hand.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/database"
	"github.com/medcare-solutions/repair-api/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is the state shared by every subcommand, filled in by the root PersistentPreRunE
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "repairctl",
		Short:         "Operator tooling for the MedCare repair API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
	}

	root.AddCommand(
		newUsersCmd(e),
		newSequencesCmd(e),
		newInvoicesCmd(e),
		newJobsCmd(e),
	)
	return root
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	db, err := database.NewDatabase(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	e.cfg, e.log, e.db = cfg, log, db
	return nil
}

// systemContext runs CLI operations with the system identity, which has admin rights
func systemContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return auth.WithUserContext(ctx, auth.NewSystemContext())
}
