package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rana718/dictseed/internal/config"
	"github.com/Rana718/dictseed/internal/database"
	"github.com/Rana718/dictseed/internal/database/common"
	"github.com/Rana718/dictseed/internal/errs"
	"github.com/Rana718/dictseed/internal/schema"
	"github.com/Rana718/dictseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	out            string
	format         string
	rows           int
	seed           int64
	watermarks     bool
	skipUnresolved bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate <schema-file>",
	Short: "Generate INSERT statements from a data dictionary",
	Long: `
Generate synthetic rows for every table of a data dictionary and print them
as INSERT statements, or as JSON with --format json.

Examples:
  dictseed generate dictionary.json
  dictseed generate dictionary.yaml --rows 50 --seed 7 --out seed.sql
  dictseed generate dictionary.json --watermarks`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genOpts.out, "out", "o", "", "write output to a file instead of stdout")
	generateCmd.Flags().StringVar(&genOpts.format, "format", "sql", "output format: sql or json")
	addGenerationFlags(generateCmd, &genOpts)
	generateCmd.Flags().BoolVar(&genOpts.watermarks, "watermarks", false, "continue integer primary keys from the configured database")
}

func addGenerationFlags(cmd *cobra.Command, opts *generateOptions) {
	cmd.Flags().IntVarP(&opts.rows, "rows", "n", 0, "rows per table (default from config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for reproducible output (default from config)")
	cmd.Flags().BoolVar(&opts.skipUnresolved, "skip-unresolved", false, "skip tables in dependency cycles instead of failing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genOpts.format != "sql" && genOpts.format != "json" {
		return errs.Newf(errs.ErrKindInvalidInput, "unknown format %q (use sql or json)", genOpts.format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var source seeder.WatermarkSource
	if genOpts.watermarks {
		if !cfg.HasDatabase() {
			return errs.New(errs.ErrKindInvalidInput, "--watermarks needs database.dbname in the config")
		}
		source = database.NewClient(cfg.ConnectionParams())
	}

	meta, data, err := buildDataset(cmd.Context(), cfg, args[0], genOpts, source)
	if err != nil {
		return err
	}

	var output []byte
	switch genOpts.format {
	case "json":
		output, err = encodeDataset(data)
		if err != nil {
			return err
		}
	default:
		output = []byte(seeder.GenerateInsertSQL(meta, data) + "\n")
	}

	if genOpts.out == "" {
		_, err = os.Stdout.Write(output)
		return err
	}

	if err := os.WriteFile(genOpts.out, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", genOpts.out, err)
	}
	color.Green("✅ Wrote %d table(s) to %s", len(data.Tables()), genOpts.out)
	return nil
}

// buildDataset loads the dictionary at path and generates its rows. When
// source is set the schema name is resolved for the configured destination.
func buildDataset(ctx context.Context, cfg *config.Config, path string, opts generateOptions, source seeder.WatermarkSource) (*schema.Metadata, *seeder.Dataset, error) {
	meta, err := schema.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if source != nil {
		meta.Name = targetSchema(cfg, meta.Name)
	}

	seedCfg := seeder.SeedConfig{
		Rows:           cfg.Rows,
		Seed:           cfg.Seed,
		SkipUnresolved: opts.skipUnresolved,
	}
	if opts.rows > 0 {
		seedCfg.Rows = opts.rows
	}
	if opts.seed != 0 {
		seedCfg.Seed = opts.seed
	}

	data, err := seeder.NewSeeder(seedCfg, source).Generate(ctx, meta)
	if err != nil {
		return nil, nil, err
	}
	return meta, data, nil
}

// targetSchema picks the schema INSERTs are qualified with on the
// destination: the configured override, else the dictionary's own name.
// SQLite only knows "main" for the primary database file.
func targetSchema(cfg *config.Config, dictionarySchema string) string {
	if cfg.Database.Schema != "" {
		return cfg.Database.Schema
	}
	if cfg.Database.Provider == common.ProviderSQLite {
		return "main"
	}
	return dictionarySchema
}

type tableRows struct {
	Table string       `json:"table"`
	Rows  []seeder.Row `json:"rows"`
}

func encodeDataset(data *seeder.Dataset) ([]byte, error) {
	tables := make([]tableRows, 0, len(data.Tables()))
	for _, name := range data.Tables() {
		tables = append(tables, tableRows{Table: name, Rows: data.Rows(name)})
	}
	out, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return append(out, '\n'), nil
}
