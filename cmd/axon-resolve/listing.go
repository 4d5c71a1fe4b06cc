package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/toyz/axonresolve/pkg/resolve"
)

const noResolversMessage = "There are no meta resolvers defined."

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// resolverRow is one registry entry as shown to a user
type resolverRow struct {
	Marker   string `json:"marker"`
	Resolver string `json:"resolver"`
}

// listingRows renders registry entries in marker order. Names are shortened
// to their last segment unless verbose is set.
func listingRows(reg *resolve.Registry, verbose bool) []resolverRow {
	return lo.Map(reg.Entries(), func(entry resolve.Entry, _ int) resolverRow {
		marker := string(entry.Marker)
		if !verbose {
			marker = resolve.ShortName(entry.Marker)
		}
		return resolverRow{
			Marker:   marker,
			Resolver: resolve.ResolverName(entry.Resolver, verbose),
		}
	})
}

// renderListing writes the Marker | Resolver table for reg
func renderListing(w io.Writer, reg *resolve.Registry, verbose bool) error {
	rows := listingRows(reg, verbose)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, noResolversMessage)
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Marker", "Resolver").
		Rows(lo.Map(rows, func(row resolverRow, _ int) []string {
			return []string{row.Marker, row.Resolver}
		})...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
