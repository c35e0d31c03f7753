package cmd

import (
	"fmt"

	"lite2pg/internal/apply"
	"lite2pg/internal/schema"

	"github.com/spf13/cobra"
)

var verifyTables []string

var verifyCmd = &cobra.Command{
	Use:   "verify <sqlite_db_path>",
	Short: "Compare target tables and row counts with the SQLite source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, src, err := openSource(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		expected, err := schema.Summarize(db, src, tableFilter(verifyTables))
		if err != nil {
			return err
		}

		cfg := GetTargetConfig()
		if err := cfg.ResolvePassword(); err != nil {
			return err
		}
		connString, err := cfg.ConnString()
		if err != nil {
			return err
		}

		results, err := verifyTarget(cmd.Context(), connString, cfg.Schema, expected)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), results)
		if !apply.AllOK(results) {
			return fmt.Errorf("verification found %d problem table(s)", countProblems(results))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringSliceVarP(&verifyTables, "tables", "t", []string{}, "Specific tables to verify (comma-separated)")
}
