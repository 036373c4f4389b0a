package delivery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdfcourier/api/internal/model"
)

// IndexFileName is the summary shipped with every delivery
const IndexFileName = "summary.txt"

// BuildIndex renders the plain-text manifest listing every input
// item in its original order, converted or not
func BuildIndex(result *model.BatchResult) string {
	type row struct {
		index int
		text  string
	}
	rows := make([]row, 0, len(result.Success)+len(result.Failed))

	for _, a := range result.Success {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d. OK      %s", a.Index, a.FileName)
		if a.Label != "" {
			fmt.Fprintf(&b, " (%s)", a.Label)
		}
		fmt.Fprintf(&b, "\n     %s\n", a.URL)
		rows = append(rows, row{a.Index, b.String()})
	}
	for _, f := range result.Failed {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d. FAILED  %s", f.Index, f.FileName)
		if f.Label != "" {
			fmt.Fprintf(&b, " (%s)", f.Label)
		}
		fmt.Fprintf(&b, "\n     %s\n     error: %s\n", f.URL, f.Error)
		rows = append(rows, row{f.Index, b.String()})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	var b strings.Builder
	fmt.Fprintf(&b, "Converted %d of %d URLs (%d failed)\n\n",
		len(result.Success), result.Total, len(result.Failed))
	for _, r := range rows {
		b.WriteString(r.text)
	}
	return b.String()
}
