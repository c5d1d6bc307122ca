package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the recorder schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configFlag(cmd))
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			if a.cfg.Database.DSN == "" {
				return fmt.Errorf("database.dsn is required for migrate")
			}
			if err := a.openRecorder(ctx); err != nil {
				a.logger.Errorf(ctx, "Migration failed: %v", err)
				return err
			}
			a.logger.Info(ctx, "Schema is up to date")
			return nil
		},
	}
}
