package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rana718/dictseed/internal/database"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <sql-file>",
	Short: "Execute a SQL file against the database in one transaction",
	Long: `
Execute a SQL file, typically the output of 'dictseed generate', against the
configured database. Statements run in order inside one transaction; if any
of them fails nothing is committed.

Examples:
  dictseed exec seed.sql`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	sqlFile := args[0]

	sqlContent, err := os.ReadFile(sqlFile)
	if os.IsNotExist(err) {
		return errs.Newf(errs.ErrKindNotFound, "SQL file not found: %s", sqlFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read SQL file: %w", err)
	}
	if strings.TrimSpace(string(sqlContent)) == "" {
		return errs.Newf(errs.ErrKindInvalidInput, "SQL file is empty: %s", sqlFile)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasDatabase() {
		return errs.New(errs.ErrKindInvalidInput, "exec needs database.dbname in the config")
	}

	client := database.NewClient(cfg.ConnectionParams())

	fmt.Printf("📄 Executing SQL file: %s\n", sqlFile)
	fmt.Printf("🎯 Database: %s\n", client.Params().Redacted())
	fmt.Println()

	if err := client.Ping(cmd.Context()); err != nil {
		color.Red("❌ Cannot reach the database")
		return err
	}

	n, err := client.ExecuteInserts(cmd.Context(), string(sqlContent))
	if err != nil {
		if n := errs.StatementOf(err); n > 0 {
			color.Red("❌ Statement %d failed", n)
		}
		color.Red("❌ Execution failed, transaction rolled back")
		return err
	}

	color.Green("🎉 %d statement(s) executed successfully!", n)
	return nil
}
