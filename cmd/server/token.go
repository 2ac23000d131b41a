package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/boost-ledger/internal/api/middleware"
	"github.com/d60-Lab/boost-ledger/internal/service"
)

func init() {
	rootCmd.AddCommand(tokenCmd, roleCmd)
	tokenCmd.Flags().String("sub", "", "Account id (JWT subject)")
	tokenCmd.Flags().String("name", "", "Username used when the account is first created")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to jwt.ttl)")
	_ = tokenCmd.MarkFlagRequired("sub")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sub, _ := cmd.Flags().GetString("sub")
		name, _ := cmd.Flags().GetString("name")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = cfg.JWT.TTL
		}
		tok, err := middleware.IssueToken(cfg.JWT.Secret, cfg.JWT.Issuer, sub, name, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:   "role ACCOUNT_ID ROLE",
	Short: "Set an account role (user, moderator, admin)",
	Long:  `Bootstrap moderators and admins; the account is created if it does not exist yet.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		accounts := service.NewAccountService(db, nil)
		if _, err := accounts.EnsureAccount(cmd.Context(), args[0], args[0]); err != nil {
			return err
		}
		if err := accounts.SetRole(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], args[1])
		return nil
	},
}
