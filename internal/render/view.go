// Package render maps collections plus view state to a display tree.
// Every adapter is a pure function with no I/O, so the data layer can
// be exercised with no rendering surface at all; printing lives in
// Fprint alone.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// View is one renderable fragment.
type View interface{ view() }

// Table is a header row plus data rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string
}

// Cards is the storefront grid.
type Cards struct {
	Title string
	Cards []Card
}

type Card struct {
	Title    string
	Subtitle string
	Badge    string
	Price    string
}

// Empty is the explicit empty state, distinct from "not yet loaded".
type Empty struct {
	Title string
	Hint  string
}

// Detail is a labeled field list with an optional line-item table.
type Detail struct {
	Title  string
	Fields []Field
	Items  *Table
}

type Field struct {
	Label string
	Value string
}

// Pager describes pagination controls under a list.
type Pager struct {
	Page       int
	TotalPages int
}

// Group stacks several views.
type Group struct {
	Views []View
}

func (Table) view()  {}
func (Cards) view()  {}
func (Empty) view()  {}
func (Detail) view() {}
func (Pager) view()  {}
func (Group) view()  {}

// Fprint writes a plain-text rendering of the view tree.
func Fprint(w io.Writer, v View) {
	switch t := v.(type) {
	case Group:
		for _, sub := range t.Views {
			Fprint(w, sub)
		}
	case Empty:
		fmt.Fprintf(w, "%s\n", t.Title)
		if t.Hint != "" {
			fmt.Fprintf(w, "  %s\n", t.Hint)
		}
	case Cards:
		if t.Title != "" {
			fmt.Fprintf(w, "%s\n", t.Title)
		}
		for _, card := range t.Cards {
			fmt.Fprintf(w, "- %s — %s", card.Title, card.Subtitle)
			if card.Badge != "" {
				fmt.Fprintf(w, " [%s]", card.Badge)
			}
			fmt.Fprintf(w, " · %s\n", card.Price)
		}
	case Table:
		if t.Title != "" {
			fmt.Fprintf(w, "%s\n", t.Title)
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		printRow(tw, t.Headers)
		for _, row := range t.Rows {
			printRow(tw, row)
		}
		tw.Flush()
		if t.Footer != "" {
			fmt.Fprintf(w, "%s\n", t.Footer)
		}
	case Detail:
		if t.Title != "" {
			fmt.Fprintf(w, "%s\n", t.Title)
		}
		for _, f := range t.Fields {
			fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
		}
		if t.Items != nil {
			Fprint(w, *t.Items)
		}
	case Pager:
		if t.TotalPages > 1 {
			fmt.Fprintf(w, "page %d/%d\n", t.Page+1, t.TotalPages)
		}
	}
}

func printRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}
