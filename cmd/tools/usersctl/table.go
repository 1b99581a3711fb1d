package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/useradmin/user-admin/backend/internal/model/user"
)

var tableHeader = []string{"ID", "Ad Soyad", "E-posta", "Telefon", "Adres"}

// RenderTable prints users as an aligned grid. Widths are measured in terminal cells so
// names with Turkish or wide characters stay aligned.
func RenderTable(w io.Writer, users []user.User) {
	rows := make([][]string, 0, len(users)+1)
	rows = append(rows, tableHeader)
	for _, u := range users {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, u.Email, u.Phone, u.Address})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))

		if n == 0 {
			sep := make([]string, len(widths))
			for i, width := range widths {
				sep[i] = strings.Repeat("-", width)
			}
			fmt.Fprintln(w, strings.Join(sep, "  "))
		}
	}
}
