package cmd

import (
	"strings"

	"github.com/pterm/pterm"
)

// PrintTableNoPad renders a table without the trailing padding pterm adds to the
// last column, so copied output has no dangling spaces.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	s, err := pterm.DefaultTable.WithHasHeader(hasHeader).WithData(data).Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	pterm.Println(strings.Join(lines, "\n"))
}
