package impute_test

import (
	"testing"

	"filmtrend/internal/impute"
)

func TestImputeNumericMean(t *testing.T) {
	snapshot := impute.Snapshot{Columns: []impute.Column{{
		Name: "score",
		Kind: impute.Numeric,
		Cells: []impute.Cell{
			impute.NumberCell(10),
			impute.NullCell(),
			impute.NumberCell(20),
			impute.NullCell(),
		},
	}}}

	got := impute.Impute(snapshot).Columns[0].Cells
	for _, idx := range []int{1, 3} {
		if got[idx].Null || got[idx].Number != 15 {
			t.Errorf("cell %d = %+v, want 15", idx, got[idx])
		}
	}
	if got[0].Number != 10 || got[2].Number != 20 {
		t.Errorf("non-null cells changed: %+v", got)
	}
}

func TestImputeCategoricalMode(t *testing.T) {
	snapshot := impute.Snapshot{Columns: []impute.Column{{
		Name: "country",
		Kind: impute.Categorical,
		Cells: []impute.Cell{
			impute.TextCell("US"),
			impute.TextCell("US"),
			impute.TextCell("KR"),
			impute.NullCell(),
		},
	}}}

	got := impute.Impute(snapshot).Columns[0].Cells
	if got[3].Null || got[3].Text != "US" {
		t.Errorf("null cell = %+v, want US", got[3])
	}
}

func TestImputeModeTieBreaksBySortedOrder(t *testing.T) {
	snapshot := impute.Snapshot{Columns: []impute.Column{{
		Name: "language",
		Kind: impute.Categorical,
		Cells: []impute.Cell{
			impute.TextCell("en"),
			impute.TextCell("de"),
			impute.NullCell(),
		},
	}}}

	got := impute.Impute(snapshot).Columns[0].Cells
	if got[2].Text != "de" {
		t.Errorf("tie should pick first in sorted order, got %q", got[2].Text)
	}
}

func TestImputeAllNullStaysNull(t *testing.T) {
	snapshot := impute.Snapshot{Columns: []impute.Column{{
		Name:  "budget",
		Kind:  impute.Numeric,
		Cells: []impute.Cell{impute.NullCell(), impute.NullCell()},
	}}}

	got := impute.Impute(snapshot).Columns[0].Cells
	for i, cell := range got {
		if !cell.Null {
			t.Errorf("cell %d should stay null, got %+v", i, cell)
		}
	}
}

func TestImputeFillValueFixedFromPrePass(t *testing.T) {
	snapshot := impute.Snapshot{Columns: []impute.Column{{
		Name: "score",
		Kind: impute.Numeric,
		Cells: []impute.Cell{
			impute.NullCell(),
			impute.NumberCell(30),
			impute.NullCell(),
			impute.NumberCell(60),
		},
	}}}

	got := impute.Impute(snapshot).Columns[0].Cells
	if got[0].Number != 45 || got[2].Number != 45 {
		t.Errorf("both nulls should get the pre-pass mean 45: %+v", got)
	}
}
