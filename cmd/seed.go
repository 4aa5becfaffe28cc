package cmd

import (
	"fmt"
	"strings"

	"github.com/Rana718/dictseed/internal/database"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/Rana718/dictseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedOpts   generateOptions
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed <schema-file>",
	Short: "Generate rows and insert them into the configured database",
	Long: `
Generate synthetic rows for a data dictionary and insert them into the
configured database in a single transaction. Integer primary keys continue
from the current maximum of each table.

Examples:
  dictseed seed dictionary.json
  dictseed seed dictionary.yaml --rows 100 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	addGenerationFlags(seedCmd, &seedOpts)
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "print the statements instead of executing them")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasDatabase() {
		return errs.New(errs.ErrKindInvalidInput, "seed needs database.dbname in the config")
	}

	ctx := cmd.Context()
	client := database.NewClient(cfg.ConnectionParams())

	// Watermark lookups never report errors; fail before generating.
	if err := client.Ping(ctx); err != nil {
		color.Red("❌ Cannot reach %s", client.Params().Redacted())
		return err
	}

	meta, data, err := buildDataset(ctx, cfg, args[0], seedOpts, client)
	if err != nil {
		return err
	}

	missing, err := client.MissingTables(ctx, meta.Name, data.Tables())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		color.Yellow("⚠️  Tables not found in %s: %s", meta.Name, strings.Join(missing, ", "))
	}

	sql := seeder.GenerateInsertSQL(meta, data)
	if seedDryRun {
		fmt.Println(sql)
		return nil
	}

	fmt.Printf("🌱 Seeding %s (%s)\n", meta.Name, client.Params().Provider)
	n, err := client.ExecuteInserts(ctx, sql)
	if err != nil {
		if n := errs.StatementOf(err); n > 0 {
			color.Red("❌ Statement %d failed", n)
		}
		color.Red("❌ Seeding failed, nothing was committed")
		return err
	}

	for _, table := range data.Tables() {
		fmt.Printf("   %-30s %d row(s)\n", table, len(data.Rows(table)))
	}
	color.Green("✅ Inserted %d row(s) into %d table(s)", n, len(data.Tables()))
	return nil
}
