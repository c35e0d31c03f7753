package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "dev"
)

var RootCmd = &cobra.Command{
	Use:   "lite2pg",
	Short: "SQLite to PostgreSQL migration tool",
	Long: `
  _ _ _       ____              
 | (_) |_ ___|___ \ _ __   __ _ 
 | | | __/ _ \ __) | '_ \ / _' |
 | | | ||  __// __/| |_) | (_| |
 |_|_|\__\___|_____| .__/ \__, |
                   |_|    |___/ 

LITE2PG 🐘 - converts a SQLite database file into a PostgreSQL script,
optionally imports it into a live server and verifies the result.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lite2pg %s\n", Version)
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println("❌ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./lite2pg.yaml)")
	RootCmd.PersistentFlags().String("dsn", "", "Target PostgreSQL connection string (overrides target.* settings)")
	RootCmd.PersistentFlags().String("schema", "public", "Target schema used for verification")

	viper.BindPFlag("target.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("target.schema", RootCmd.PersistentFlags().Lookup("schema"))

	setDefaults()

	RootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("lite2pg")
		viper.SetConfigType("yaml")
	}

	// LITE2PG_TARGET_PASSWORD -> target.password
	viper.SetEnvPrefix("LITE2PG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
