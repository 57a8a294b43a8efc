package dbtune

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ExportRow ties a point to its assigned cluster and its reference label.
type ExportRow struct {
	Identifier     string
	Label          int
	ReferenceLabel string
}

// ExportHeader is the column header written by WriteCSV.
var ExportHeader = []string{"identifier", "label", "reference_label"}

// Export returns one row per point of ps, in point order.
func Export(ps *PointSet, a *Assignment) ([]ExportRow, error) {
	if len(a.Labels) != ps.Len() {
		return nil, invalidParamf("assignment has %d labels for %d points", len(a.Labels), ps.Len())
	}
	rows := make([]ExportRow, ps.Len())
	for i := range rows {
		rows[i] = ExportRow{
			Identifier:     ps.ID(i),
			Label:          a.Labels[i],
			ReferenceLabel: ps.ReferenceOf(i),
		}
	}
	return rows, nil
}

// WriteCSV writes rows as CSV with ExportHeader as the first record.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Identifier, strconv.Itoa(r.Label), r.ReferenceLabel}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
