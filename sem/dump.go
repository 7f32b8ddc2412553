package sem

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Dump writes a listing of every scope in creation order.  Each symbol is
// listed with its type, kind, offset and reference lines.
func (t *Table) Dump(w io.Writer) error {
	for i, scope := range t.scopes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "Scope: %s\n", scope.Name); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Name\tType\tKind\tOffset\tLines")
		for _, row := range scope.Rows() {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

// Rows returns the listing of the scope as table rows (without a header)
func (s *Scope) Rows() [][]string {
	rows := make([][]string, 0, len(s.order))
	for _, sym := range s.order {
		refs := make([]string, len(sym.Refs))
		for i, ref := range sym.Refs {
			refs[i] = strconv.Itoa(ref)
		}

		rows = append(rows, []string{
			sym.Name,
			sym.Type.String(),
			sym.Kind.String(),
			strconv.Itoa(sym.Offset),
			strings.Join(refs, " "),
		})
	}

	return rows
}
