package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Rana718/dictseed/internal/schema"
	"github.com/Rana718/dictseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order <schema-file>",
	Short: "Show the order tables are generated in",
	Long: `
Resolve the dependency order of a data dictionary's tables. Tables caught in
a dependency cycle, or depending on an undeclared table, are listed
separately.

Examples:
  dictseed order dictionary.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	meta, err := schema.Load(args[0])
	if err != nil {
		return err
	}

	graph := seeder.NewDependencyGraph()
	for _, name := range meta.TableNames() {
		table, _ := meta.Table(name)
		graph.AddTable(name, table.DependsOn)
	}
	order, unresolved := graph.Resolve()

	rows := make([][]string, 0, len(order))
	for i, name := range order {
		table, _ := meta.Table(name)
		rows = append(rows, []string{strconv.Itoa(i + 1), name, strings.Join(table.DependsOn, ", ")})
	}

	fmt.Printf("📦 Schema: %s\n\n", meta.Name)
	displayTable(os.Stdout, []string{"#", "table", "depends on"}, rows)

	if len(unresolved) > 0 {
		fmt.Println()
		color.Yellow("⚠️  Unresolved (cyclic or missing dependencies): %s", strings.Join(unresolved, ", "))
	}
	return nil
}

// displayTable draws rows in a box-drawn grid.
func displayTable(w io.Writer, columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, val := range row {
			if len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, width := range widths {
			fmt.Fprint(w, strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(vals []string) {
		fmt.Fprint(w, "│")
		for i, val := range vals {
			fmt.Fprintf(w, " %-*s │", widths[i], val)
		}
		fmt.Fprintln(w)
	}

	border("┌", "┬", "┐")
	line(columns)
	border("├", "┼", "┤")
	for _, row := range rows {
		line(row)
	}
	border("└", "┴", "┘")
}
