package impute

import "sort"

// ColumnKind selects the fill strategy for a column.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

// Cell is one value in a column snapshot. Null cells are candidates for
// filling.
type Cell struct {
	Null   bool
	Number float64
	Text   string
}

// NumberCell returns a non-null numeric cell.
func NumberCell(v float64) Cell { return Cell{Number: v} }

// TextCell returns a non-null categorical cell.
func TextCell(v string) Cell { return Cell{Text: v} }

// NullCell returns a null cell.
func NullCell() Cell { return Cell{Null: true} }

// Column is a named column snapshot taken from a table before imputation.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// Snapshot is the set of columns for one table.
type Snapshot struct {
	Columns []Column
}

// Impute fills null cells: numeric columns with the mean of non-null values,
// categorical columns with the mode (ties broken by sorted order). Fill
// values come from the pre-pass distribution, so cells filled during the
// pass never influence each other. Non-null cells are returned unchanged,
// and a column with no non-null values stays null throughout.
func Impute(snapshot Snapshot) Snapshot {
	out := Snapshot{Columns: make([]Column, len(snapshot.Columns))}
	for i, column := range snapshot.Columns {
		filled := Column{Name: column.Name, Kind: column.Kind, Cells: make([]Cell, len(column.Cells))}
		copy(filled.Cells, column.Cells)

		switch column.Kind {
		case Numeric:
			if mean, ok := columnMean(column.Cells); ok {
				for j := range filled.Cells {
					if filled.Cells[j].Null {
						filled.Cells[j] = NumberCell(mean)
					}
				}
			}
		case Categorical:
			if mode, ok := columnMode(column.Cells); ok {
				for j := range filled.Cells {
					if filled.Cells[j].Null {
						filled.Cells[j] = TextCell(mode)
					}
				}
			}
		}
		out.Columns[i] = filled
	}
	return out
}

func columnMean(cells []Cell) (float64, bool) {
	var sum float64
	var count int
	for _, cell := range cells {
		if cell.Null {
			continue
		}
		sum += cell.Number
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func columnMode(cells []Cell) (string, bool) {
	counts := make(map[string]int)
	for _, cell := range cells {
		if cell.Null {
			continue
		}
		counts[cell.Text]++
	}
	if len(counts) == 0 {
		return "", false
	}

	values := make([]string, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}
	sort.Strings(values)

	best := values[0]
	for _, value := range values[1:] {
		if counts[value] > counts[best] {
			best = value
		}
	}
	return best, true
}
