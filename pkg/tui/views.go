package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/datatug/drivetug/pkg/batch"
	"github.com/datatug/drivetug/pkg/chroma2tcell"
	"github.com/datatug/drivetug/pkg/engine"
	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/fsutils"
	"github.com/datatug/drivetug/pkg/hexedit"
	"github.com/datatug/drivetug/pkg/navigation"
)

func headerText(f engine.Frame) string {
	var b strings.Builder
	if f.Elevated {
		b.WriteString("[red::b]W[-::-] ")
	}
	top := f.TopBar
	if top == "" && f.Mode == engine.FrameBrowser {
		top = "[drives]"
	}
	b.WriteString(tview.Escape(top))
	if f.Mode == engine.FrameBrowser && f.Listing.Panes > 1 {
		fmt.Fprintf(&b, "  [gray]pane %d/%d[-]", f.Listing.Pane+1, f.Listing.Panes)
	}
	if f.Listing.Clipboard > 0 {
		fmt.Fprintf(&b, "  [yellow]clipboard: %d[-]", f.Listing.Clipboard)
	}
	return b.String()
}

func footerText(f engine.Frame) string {
	line := f.Status
	switch {
	case f.Progress != nil:
		line = progressText(*f.Progress)
	case line != "":
		line = tview.Escape(line)
	case f.Mode == engine.FrameHex && f.Hex != nil:
		line = fmt.Sprintf("%08X / %08X", f.Hex.Offset, f.Hex.Size)
		if f.Hex.Editing {
			line += fmt.Sprintf("  [red]EDIT[-] %d change(s)", f.Hex.Diffs)
		}
	case f.Mode == engine.FrameBrowser && f.Current != nil:
		line = entryText(*f.Current)
		if f.Listing.Marked > 0 {
			line += fmt.Sprintf("  [yellow]%d marked[-]", f.Listing.Marked)
		}
	}
	return line + "\n[gray]" + tview.Escape(KeyHelp) + "[-]"
}

func entryText(e files.DirEntry) string {
	name := tview.Escape(e.Name)
	if e.Kind == files.KindFile {
		return fmt.Sprintf("%s  %s", name, fsutils.SizeText(e.Size))
	}
	return name
}

var progressVerbs = map[batch.OperationType]string{
	batch.CopyOperation:      "Copying",
	batch.MoveOperation:      "Moving",
	batch.PasteOperation:     "Pasting",
	batch.StagingOperation:   "Copying to output",
	batch.DeleteOperation:    "Deleting",
	batch.RenameOperation:    "Renaming",
	batch.CreateDirOperation: "Creating",
	batch.CreateOperation:    "Creating",
	batch.InjectOperation:    "Injecting",
}

func progressText(p batch.OperationProgress) string {
	verb, ok := progressVerbs[p.Type]
	if !ok {
		verb = string(p.Type)
	}
	s := fmt.Sprintf("%s %d/%d", verb, min(p.Done+p.Failed+p.Skipped+1, p.Total), p.Total)
	if p.Failed > 0 {
		s += fmt.Sprintf(" [red](%d failed)[-]", p.Failed)
	}
	if p.Current != "" {
		s += ": " + tview.Escape(p.Current)
	}
	return s
}

func fillListing(t *tview.Table, v navigation.ListingView) {
	t.Clear()
	for row, e := range v.Entries {
		mark := " "
		if e.Marked {
			mark = "*"
		}
		color := tcell.ColorWhite
		size := ""
		switch e.Kind {
		case files.KindDirectory:
			color, size = tcell.ColorYellow, "<DIR>"
		case files.KindDriveRoot:
			color, size = tcell.ColorAqua, "DRV"
		case files.KindParentLink:
			color = tcell.ColorGray
		default:
			size = fsutils.SizeText(e.Size)
		}
		if e.Marked {
			color = tcell.ColorLime
		}
		t.SetCell(row, 0, tview.NewTableCell(mark).SetTextColor(color))
		t.SetCell(row, 1, tview.NewTableCell(tview.Escape(e.Name)).SetTextColor(color).SetExpansion(1))
		t.SetCell(row, 2, tview.NewTableCell(size).SetTextColor(color).SetAlign(tview.AlignRight))
	}
	if cursor := v.Cursor - v.First; cursor >= 0 && cursor < len(v.Entries) {
		t.Select(cursor, 0)
	}
	t.SetOffset(0, 0)
}

func hexText(v *hexedit.HexView) string {
	g := v.Geometry
	var b strings.Builder
	for _, r := range v.Rows {
		if g.OffsetColumn {
			fmt.Fprintf(&b, "[gray]%08X[-]  ", r.Offset)
		}
		for col := 0; col < g.Cols; col++ {
			if col >= len(r.Bytes) {
				b.WriteString("   ")
				continue
			}
			cell := fmt.Sprintf("%02X", r.Bytes[col])
			switch {
			case col == r.Cursor:
				cell = "[black:red]" + cell + "[-:-]"
			case col < len(r.Marked) && r.Marked[col]:
				cell = "[black:yellow]" + cell + "[-:-]"
			}
			b.WriteString(cell + " ")
		}
		if g.ASCIIColumn {
			b.WriteString(" " + tview.Escape(r.ASCII(g.Cols)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func textBody(v *engine.TextView, style string) string {
	return chroma2tcell.ColorizeFile(v.Path, strings.Join(v.Lines, "\n"), style)
}
