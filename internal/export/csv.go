// Package export writes run histories in tabular form.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"iteration", "x1", "x2", "y", "best_so_far"}

// WriteCSV writes one row per evaluation of result, with a header row.
func WriteCSV(w io.Writer, result *optimization.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	best := result.History.BestSoFar()
	for i, e := range result.History {
		if err := cw.Write([]string{
			strconv.Itoa(e.Iteration),
			formatFloat(e.Point.X),
			formatFloat(e.Point.Y),
			formatFloat(e.Value),
			formatFloat(best[i]),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
