package tui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/arm-assembler/encoder"
)

// Viewer is an interactive, scrollable view of an assembled listing
type Viewer struct {
	App   *tview.Application
	Table *tview.Table
}

// NewViewer creates a viewer over the encoded lines. accent is the tcell
// color name used for the machine-word column.
func NewViewer(lines []encoder.EncodedLine, accent string) *Viewer {
	v := &Viewer{
		App:   tview.NewApplication(),
		Table: tview.NewTable(),
	}

	accentColor := tcell.GetColor(accent)
	if accentColor == tcell.ColorDefault {
		accentColor = tcell.ColorGreen
	}

	v.Table.
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	v.Table.SetBorder(true).SetTitle(" Listing (q to quit) ")

	headers := []string{"Line", "Word", "Source"}
	for col, h := range headers {
		v.Table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold))
	}

	for i, line := range lines {
		row := i + 1
		v.Table.SetCell(row, 0, tview.NewTableCell(strconv.Itoa(line.Line)).
			SetTextColor(tcell.ColorGray).
			SetAlign(tview.AlignRight))
		v.Table.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%08x", line.Word)).
			SetTextColor(accentColor))
		v.Table.SetCell(row, 2, tview.NewTableCell(line.Source()).
			SetExpansion(1))
	}

	v.setupKeyBindings()

	return v
}

// setupKeyBindings wires quit keys
func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape:
			v.App.Stop()
			return nil
		case event.Rune() == 'q':
			v.App.Stop()
			return nil
		}
		return event
	})
}

// Run starts the viewer and blocks until it is dismissed
func (v *Viewer) Run() error {
	return v.App.SetRoot(v.Table, true).Run()
}
