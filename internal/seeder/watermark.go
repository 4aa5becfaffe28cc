package seeder

import (
	"context"

	"github.com/Rana718/dictseed/internal/logger"
	"github.com/Rana718/dictseed/internal/schema"
)

// WatermarkSource reports the current maximum of an integer column in the
// destination store. ok is false when the column holds no values.
type WatermarkSource interface {
	MaxValue(ctx context.Context, schemaName, table, column string) (value int64, ok bool, err error)
}

type columnKey struct {
	table  string
	column string
}

// Watermarks maps table/column to the value PK numbering continues from.
type Watermarks map[columnKey]int64

func (w Watermarks) Get(table, column string) int64 {
	return w[columnKey{table, column}]
}

func (w Watermarks) Set(table, column string, v int64) {
	w[columnKey{table, column}] = v
}

// SeedWatermarks looks up every integer primary key of the ordered tables,
// one query at a time. Lookup failures are logged and count as zero.
func SeedWatermarks(ctx context.Context, src WatermarkSource, meta *schema.Metadata, order []string) Watermarks {
	w := make(Watermarks)
	if src == nil {
		return w
	}
	log := logger.FromContext(ctx)

	for _, name := range order {
		table, ok := meta.Table(name)
		if !ok {
			continue
		}
		for _, col := range table.Columns {
			if !col.IsPrimaryKey || !classify(col.Type).isInteger() {
				continue
			}

			maxVal, found, err := src.MaxValue(ctx, meta.Name, name, col.Name)
			if err != nil {
				log.WarnErr("watermark lookup failed, numbering from zero", err, map[string]interface{}{
					"table":  name,
					"column": col.Name,
				})
				maxVal = 0
			} else if !found {
				maxVal = 0
			}

			w.Set(name, col.Name, maxVal)
			log.Debugf("watermark %s.%s = %d", name, col.Name, maxVal)
		}
	}
	return w
}
