package seeder

import (
	"context"
	"strings"

	"github.com/Rana718/dictseed/internal/errs"
	"github.com/Rana718/dictseed/internal/logger"
	"github.com/Rana718/dictseed/internal/schema"
)

type Seeder struct {
	seedConfig SeedConfig
	generator  *DataGenerator
	source     WatermarkSource
}

// NewSeeder builds a seeder for one run. source may be nil, in which case
// primary keys are numbered from 1.
func NewSeeder(cfg SeedConfig, source WatermarkSource) *Seeder {
	return &Seeder{
		seedConfig: cfg,
		generator:  NewDataGenerator(cfg.Seed),
		source:     source,
	}
}

// Order resolves the generation order of meta's tables. Unresolved tables
// are an error unless the config asks to skip them.
func (s *Seeder) Order(ctx context.Context, meta *schema.Metadata) ([]string, error) {
	graph := NewDependencyGraph()
	for _, name := range meta.TableNames() {
		table, _ := meta.Table(name)
		graph.AddTable(name, table.DependsOn)
	}

	order, unresolved := graph.Resolve()
	if len(unresolved) == 0 {
		return order, nil
	}
	if !s.seedConfig.SkipUnresolved {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"cannot order tables %s: cyclic or missing dependencies", strings.Join(unresolved, ", "))
	}

	logger.FromContext(ctx).Warnf("skipping tables with unresolvable dependencies: %s", strings.Join(unresolved, ", "))
	return order, nil
}

// Generate produces the dataset for meta: tables in dependency order, rows
// per table as configured, one value per declared column.
func (s *Seeder) Generate(ctx context.Context, meta *schema.Metadata) (*Dataset, error) {
	log := logger.FromContext(ctx)

	order, err := s.Order(ctx, meta)
	if err != nil {
		return nil, err
	}
	log.InfoWith("resolved table order", map[string]interface{}{
		"schema": meta.Name,
		"order":  order,
	})

	watermarks := SeedWatermarks(ctx, s.source, meta, order)

	data := NewDataset()
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, errs.Wrap(errs.ErrKindTimeout, "generation cancelled", err)
		}

		table, _ := meta.Table(name)
		count := s.seedConfig.RowsFor(name)
		if count < 0 {
			count = 0
		}

		rows := make([]Row, 0, count)
		for i := 0; i < count; i++ {
			rows = append(rows, s.generateRow(name, table, i, watermarks, data))
		}
		data.add(name, rows)

		log.With().Str("table", name).Int("rows", count).Logger().Debug("table generated")
	}

	return data, nil
}

func (s *Seeder) generateRow(tableName string, table *schema.Table, idx int, watermarks Watermarks, data *Dataset) Row {
	row := make(Row, len(table.Columns))

	for _, col := range table.Columns {
		switch {
		case col.IsPrimaryKey:
			if classify(col.Type).isInteger() {
				row[col.Name] = watermarks.Get(tableName, col.Name) + int64(idx) + 1
			} else {
				row[col.Name] = s.generator.Generate(col)
			}

		case col.HasReference():
			// Rows of a table become visible to lookups once the whole
			// table is generated, so self-references resolve to nil.
			candidates := data.Values(col.References.Table, col.References.Column)
			if len(candidates) == 0 {
				row[col.Name] = nil
			} else {
				row[col.Name] = candidates[s.generator.rand.Intn(len(candidates))]
			}

		default:
			value := s.generator.Generate(col)
			if value == nil && !col.IsNullable() {
				value = s.generator.placeholder(col, idx)
			}
			if value == nil && !col.IsNullable() {
				value = literal(col, idx)
			}
			row[col.Name] = value
		}
	}
	return row
}
