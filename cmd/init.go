package cmd

import (
	"fmt"

	"github.com/Rana718/dictseed/internal/config"
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
	initForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.FileName,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := common.ProviderPostgres
		flagCount := 0

		if sqliteFlag {
			provider = common.ProviderSQLite
			flagCount++
		}
		if postgresqlFlag {
			provider = common.ProviderPostgres
			flagCount++
		}
		if mysqlFlag {
			provider = common.ProviderMySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		if err := config.WriteDefault(config.FileName, provider, initForce); err != nil {
			return err
		}

		color.Green("✅ Created %s for %s", config.FileName, provider)
		if provider != common.ProviderSQLite {
			fmt.Printf("   Put the database password in %s (or .env)\n", config.DefaultPasswordEnv)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config")
}
