package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"lite2pg/internal/dialect"
	"lite2pg/internal/engine"
	"lite2pg/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	count        int
	noDemoSchema bool
	seedTables   []string
)

var seedCmd = &cobra.Command{
	Use:   "seed <sqlite_db_path>",
	Short: "Fill a SQLite database with random data for trying out a migration",
	Long: `Creates the demo tables (users, posts, post_tags) unless --no-demo-schema
is given, then inserts generated rows into every selected table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sql.Open("sqlite", args[0])
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		if !noDemoSchema {
			if err := engine.CreateDemoSchema(db); err != nil {
				return err
			}
		}

		// Fetch count from Viper (Flag > Config > Default)
		targetCount := viper.GetInt("seed.default_count")
		if count > 0 { // Flag override
			targetCount = count
		}

		src, err := dialect.GetSource("sqlite")
		if err != nil {
			return err
		}

		log.Println("Analyzing schema...")
		tables, err := schema.Analyze(db, src, seedTables, nil)
		if err != nil {
			return err
		}

		log.Printf("Starting seed with count=%d per table...", targetCount)
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(targetCount * len(tables)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Seeding: "
		})

		results, err := engine.Seed(db, src, tables, targetCount, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\n📊 Summary Report:")
		total := 0
		for i, r := range results {
			icon := "✓"
			if r.Status != "OK" {
				icon = "!"
			}
			fmt.Fprintf(out, "[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(results), r.TableName, r.Actual, r.Expected, r.Status)
			if r.ErrorMsg != "" {
				fmt.Fprintf(out, "    └ Error: %s\n", r.ErrorMsg)
			}
			total += r.Actual
		}
		fmt.Fprintln(out, "--------------------------------------------------")
		fmt.Fprintf(out, "Total Rows: %d\n", total)
		log.Printf("Seed Done! Time Elapsed: %s", time.Since(start))

		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	// CLI Flags
	seedCmd.Flags().IntVar(&count, "count", 0, "Number of records to generate per table (overrides config)")
	seedCmd.Flags().BoolVar(&noDemoSchema, "no-demo-schema", false, "Seed existing tables only")
	seedCmd.Flags().StringSliceVarP(&seedTables, "tables", "t", []string{}, "Specific tables to fill (comma-separated)")
}
