package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().String("account", "", "Audit a single account instead of all")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare stored balances against ledger sums",
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	audit := service.NewAuditService(db)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if id, _ := cmd.Flags().GetString("account"); id != "" {
		rep, err := audit.AuditAccount(cmd.Context(), id)
		if err != nil {
			return err
		}
		return enc.Encode(rep)
	}

	summary, err := audit.AuditAll(cmd.Context())
	if err != nil {
		return err
	}
	if err := enc.Encode(summary); err != nil {
		return err
	}
	if n := len(summary.Drifted); n > 0 {
		return fmt.Errorf("%d account(s) drifted from the ledger", n)
	}
	return nil
}
