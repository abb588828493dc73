// Package sheet renders a plan as an XLSX bill of materials.
//
// The workbook has three sheets: Shelves (one row per shelf board), Supports
// (one row per post segment) and Summary (plan metadata and totals).
// Coordinates are in warehouse space, i.e. offset by the plan origin.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/shelfplan/pkg/plan"
)

// Sheet names in workbook order.
const (
	SheetShelves  = "Shelves"
	SheetSupports = "Supports"
	SheetSummary  = "Summary"
)

var (
	shelfHeader   = []any{"Floor", "Row", "Elevation", "X", "Z", "Length", "Width", "Orientation"}
	supportHeader = []any{"X", "Z", "Base", "Top", "Height"}
)

// RenderXLSX builds the workbook for p.
func RenderXLSX(p *plan.Plan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetShelves); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSupports, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeShelves(f, p, bold); err != nil {
		return nil, err
	}
	if err := writeSupports(f, p, bold); err != nil {
		return nil, err
	}
	if err := writeSummary(f, p, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeShelves(f *excelize.File, p *plan.Plan, header int) error {
	if err := writeHeader(f, SheetShelves, shelfHeader, header); err != nil {
		return err
	}
	for i, fp := range p.Footprints {
		orientation := "z"
		if fp.AlongX {
			orientation = "x"
		}
		row := []any{fp.Floor, fp.Row, fp.Elevation, p.Origin.X + fp.X, p.Origin.Z + fp.Z, fp.Length, fp.Width, orientation}
		if err := setRow(f, SheetShelves, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSupports(f *excelize.File, p *plan.Plan, header int) error {
	if err := writeHeader(f, SheetSupports, supportHeader, header); err != nil {
		return err
	}
	for i, s := range p.Supports {
		row := []any{p.Origin.X + s.X, p.Origin.Z + s.Z, s.Base, s.Top, s.Extent()}
		if err := setRow(f, SheetSupports, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, p *plan.Plan, header int) error {
	sum := p.Summarize()
	rows := [][]any{
		{"Plan", p.ID},
		{"Site", p.Site},
		{"Zone", p.Zone},
		{"Strategy", string(p.Strategy)},
		{"Created", p.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Rows", p.Rows},
		{"Row spacing", p.RowSpacing},
		{"Floors", sum.Floors},
		{"Shelves", sum.Shelves},
		{"Shelf length", sum.ShelfLength},
		{"Shelf area", sum.ShelfArea},
		{"Post segments", sum.Supports},
		{"Post length", sum.SupportTotal},
	}
	for _, w := range p.Warnings {
		rows = append(rows, []any{"Warning", w.String()})
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), header); err != nil {
		return fmt.Errorf("style %s: %w", SheetSummary, err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 18)
}

func writeHeader(f *excelize.File, sheet string, cols []any, style int) error {
	if err := setRow(f, sheet, 1, cols); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style %s: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
