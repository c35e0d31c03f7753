package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"lite2pg/internal/dialect"
	"lite2pg/internal/engine"
	"lite2pg/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

var (
	exportTables []string
	showProgress bool
)

var exportCmd = &cobra.Command{
	Use:   "export <sqlite_db_path> [output.sql]",
	Short: "Convert a SQLite database into a PostgreSQL script",
	Long: `Reads every user table of the SQLite database and writes DROP/CREATE
statements followed by one INSERT per row. Without an output path the
script is written to standard output.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := ""
		if len(args) > 1 {
			output = args[1]
		}
		_, err := runExport(cmd, args[0], output)
		return err
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
	addExportFlags(exportCmd)
}

func addExportFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&exportTables, "tables", "t", []string{}, "Specific tables to export (comma-separated)")
	c.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar instead of per-table lines")
	c.Flags().String("insert-style", "", "INSERT column list: named, positional or omit-serial")
	c.Flags().Bool("no-header", false, "Do not write the script header comment")
	c.Flags().Bool("no-reset-sequences", false, "Do not move serial sequences past imported keys")
}

// exportResult is what later steps (import, verification) need.
type exportResult struct {
	Tables []schema.TableSummary
	Path   string
}

// exportOptions layers the command flags over the export.* settings.
func exportOptions(cmd *cobra.Command) (engine.Options, error) {
	opts, err := GetExportOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("insert-style") {
		v, _ := flags.GetString("insert-style")
		if opts.InsertStyle, err = engine.ParseInsertStyle(v); err != nil {
			return opts, err
		}
	}
	if flags.Changed("no-header") {
		v, _ := flags.GetBool("no-header")
		opts.Header = !v
	}
	if flags.Changed("no-reset-sequences") {
		v, _ := flags.GetBool("no-reset-sequences")
		opts.ResetSequences = !v
	}
	return opts, nil
}

// runExport reads the source, builds the statement stream in memory and
// writes it out. output "" or "-" means stdout; status text then goes to
// stderr so it does not mix with the script.
func runExport(cmd *cobra.Command, sourcePath, output string) (*exportResult, error) {
	toStdout := output == "" || output == "-"
	status := cmd.OutOrStdout()
	if toStdout {
		status = cmd.ErrOrStderr()
	}

	opts, err := exportOptions(cmd)
	if err != nil {
		return nil, err
	}

	db, src, err := openSource(sourcePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	fmt.Fprintf(status, "📊 Reading SQLite database: %s\n", sourcePath)

	filter := tableFilter(exportTables)
	names, err := schema.ListTables(db, src, filter)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(status, "📋 Found %d tables: %s\n", len(names), strings.Join(names, ", "))

	tables, err := readTables(db, src, filter, len(names), status)
	if err != nil {
		return nil, err
	}

	target, err := dialect.GetTarget("postgres")
	if err != nil {
		return nil, err
	}
	script, err := engine.NewEmitter(target, GetTypeMap(), opts).Emit(tables)
	if err != nil {
		return nil, err
	}

	if toStdout {
		if err := engine.StreamScript(cmd.OutOrStdout(), script); err != nil {
			return nil, err
		}
	} else {
		if err := engine.WriteScript(output, script); err != nil {
			return nil, err
		}
		fmt.Fprintf(status, "✅ SQL export written to: %s\n", output)
	}

	res := &exportResult{Path: output}
	for _, t := range tables {
		res.Tables = append(res.Tables, t.Summary())
	}
	return res, nil
}

func readTables(db *sql.DB, src dialect.Source, filter []string, total int, status io.Writer) ([]*schema.Table, error) {
	if !showProgress {
		return schema.Analyze(db, src, filter, func(t *schema.Table) {
			fmt.Fprintf(status, "  Processing table: %s\n", t.Name)
			if len(t.Rows) > 0 {
				fmt.Fprintf(status, "    Inserting %d rows...\n", len(t.Rows))
			}
		})
	}

	// The bar goes to the status writer, never into a script on stdout.
	progress := uiprogress.New()
	progress.SetOut(status)
	progress.Start()
	defer progress.Stop()
	bar := progress.AddBar(total).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "Reading tables: "
	})

	return schema.Analyze(db, src, filter, func(*schema.Table) {
		bar.Incr()
	})
}
