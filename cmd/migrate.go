package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"lite2pg/internal/apply"
	"lite2pg/internal/dialect"
	"lite2pg/internal/schema"

	"github.com/spf13/cobra"
)

var skipVerify bool

var migrateCmd = &cobra.Command{
	Use:   "migrate <sqlite_db_path> [output.sql]",
	Short: "Export a SQLite database and import it into PostgreSQL",
	Long: `Runs export, applies the generated script to the target server with
psql (or the built-in driver when target.executor is "driver") and then
compares table row counts on the target with the source.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := defaultScriptPath(args[0])
		if len(args) > 1 {
			output = args[1]
		}
		if output == "-" {
			return fmt.Errorf("migrate needs a script file, not stdout")
		}

		cfg := GetTargetConfig()
		// Fail on a missing target before any work is done.
		if cfg.DSN == "" {
			if _, err := cfg.ConnString(); err != nil {
				return err
			}
		}

		start := time.Now()
		res, err := runExport(cmd, args[0], output)
		if err != nil {
			return err
		}

		if err := cfg.ResolvePassword(); err != nil {
			return err
		}
		connString, err := cfg.ConnString()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
		fmt.Fprintln(out, "📥 Importing to PostgreSQL...")
		fmt.Fprintf(out, "   Target: %s\n", cfg.Redacted())

		if err := importScript(cmd.Context(), cfg, connString, res.Path, out); err != nil {
			return err
		}

		if !skipVerify {
			fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
			results, err := verifyTarget(cmd.Context(), connString, cfg.Schema, res.Tables)
			if err != nil {
				return err
			}
			printReport(out, results)
			if !apply.AllOK(results) {
				return fmt.Errorf("verification found %d problem table(s)", countProblems(results))
			}
		}

		log.Printf("Migration Done! Time Elapsed: %s", time.Since(start))
		fmt.Fprintln(out, "🎉 Migration process complete!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	addExportFlags(migrateCmd)
	migrateCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Do not compare row counts after the import")
}

// defaultScriptPath derives "<name>_pg_import.sql" in the working directory.
func defaultScriptPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_pg_import.sql"
}

// newExecutor picks psql or the built-in driver according to target.executor.
func newExecutor(ctx context.Context, cfg *TargetConfig, connString string) (apply.Executor, func(), error) {
	switch cfg.Executor {
	case "", "psql":
		return &apply.PsqlExecutor{ConnString: connString, Binary: cfg.PsqlPath, StopOnError: cfg.StopOnError}, func() {}, nil
	case "driver":
		ex, err := apply.OpenDriverExecutor(ctx, connString)
		if err != nil {
			return nil, nil, err
		}
		return ex, func() { _ = ex.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown target.executor %q (want psql or driver)", cfg.Executor)
}

func importScript(ctx context.Context, cfg *TargetConfig, connString, scriptPath string, out io.Writer) error {
	ex, closeFn, err := newExecutor(ctx, cfg, connString)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := ex.Apply(ctx, scriptPath); err != nil {
		var execErr *apply.ExecError
		if errors.As(err, &execErr) {
			fmt.Fprintln(out, "❌ Import failed:")
			fmt.Fprintln(out, strings.TrimRight(execErr.Output, "\n"))
			return execErr.Err
		}
		return err
	}
	fmt.Fprintln(out, "✅ Import successful!")
	return nil
}

func verifyTarget(ctx context.Context, connString, schemaName string, expected []schema.TableSummary) ([]schema.TableResult, error) {
	db, err := apply.Open(ctx, connString)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	target, err := dialect.GetTarget("postgres")
	if err != nil {
		return nil, err
	}
	return apply.Verify(ctx, db, target, schemaName, expected)
}

// printReport prints one line per table, like the seed summary.
func printReport(out io.Writer, results []schema.TableResult) {
	fmt.Fprintln(out, "📊 Verification Report:")
	total := 0
	for i, r := range results {
		icon := "✓"
		statusDisplay := r.Status
		if r.Status == apply.StatusOK {
			statusDisplay = "OK (Verified)"
		} else {
			icon = "!"
		}

		fmt.Fprintf(out, "[%s] [%02d/%02d] %-20s : %d rows (Source: %d) - %s\n",
			icon, i+1, len(results), r.TableName, r.Actual, r.Expected, statusDisplay)
		if r.ErrorMsg != "" {
			fmt.Fprintf(out, "    └ Error: %s\n", r.ErrorMsg)
		}
		total += r.Actual
	}
	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "Total Rows: %d\n", total)
}

func countProblems(results []schema.TableResult) int {
	n := 0
	for _, r := range results {
		if r.Status != apply.StatusOK {
			n++
		}
	}
	return n
}
