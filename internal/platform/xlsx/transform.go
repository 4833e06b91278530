// Package xlsx rewrites uploaded plan workbooks into the flat layout the
// review pipeline consumes: header on row 1, data immediately below, nothing
// above. It edits workbooks in place via excelize so formulas and styles
// survive untouched; it never evaluates a formula.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Rename pairs a zero-based column index with the header text to write on
// row 1. Columns without a rename keep their original header verbatim.
type Rename struct {
	ColumnIndex int
	Header      string
}

// Flatten shifts the block starting at headerRow to the top of the first
// sheet, drops the rows vacated at the bottom, and applies header renames.
// Formulas are carried over exactly as stored, so references keep pointing
// at their original coordinates; the service treats workbooks as documents,
// not as data to recompute.
func Flatten(workbook []byte, headerRow int, renames []Rename) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	maxRow := len(rows)
	if maxRow == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	if headerRow < 1 {
		headerRow = 1
	}
	if headerRow > maxRow {
		return nil, fmt.Errorf("header row %d beyond last sheet row %d", headerRow, maxRow)
	}

	shift := headerRow - 1
	if shift > 0 {
		for r := headerRow; r <= maxRow; r++ {
			for c := 1; c <= maxCol; c++ {
				src, _ := excelize.CoordinatesToCellName(c, r)
				dst, _ := excelize.CoordinatesToCellName(c, r-shift)
				if err := copyCell(f, sheet, src, dst); err != nil {
					return nil, err
				}
			}
		}
		for r := maxRow; r > maxRow-shift; r-- {
			if err := f.RemoveRow(sheet, r); err != nil {
				return nil, fmt.Errorf("remove row %d: %w", r, err)
			}
		}
	}

	for _, rn := range renames {
		if rn.ColumnIndex < 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(rn.ColumnIndex+1, 1)
		if err != nil {
			return nil, fmt.Errorf("rename column %d: %w", rn.ColumnIndex, err)
		}
		if err := f.SetCellValue(sheet, cell, rn.Header); err != nil {
			return nil, fmt.Errorf("rename column %d: %w", rn.ColumnIndex, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// copyCell moves formula, value, and style from src to dst. Setting an empty
// formula clears any formula the destination previously held, so plain
// values do not end up shadowed by stale formulas from the banner rows.
func copyCell(f *excelize.File, sheet, src, dst string) error {
	formula, err := f.GetCellFormula(sheet, src)
	if err != nil {
		return fmt.Errorf("read formula %s: %w", src, err)
	}
	if err := f.SetCellFormula(sheet, dst, formula); err != nil {
		return fmt.Errorf("write formula %s: %w", dst, err)
	}
	if formula == "" {
		value, err := f.GetCellValue(sheet, src, excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("read cell %s: %w", src, err)
		}
		if err := f.SetCellDefault(sheet, dst, value); err != nil {
			return fmt.Errorf("write cell %s: %w", dst, err)
		}
	}

	styleID, err := f.GetCellStyle(sheet, src)
	if err != nil {
		return fmt.Errorf("read style %s: %w", src, err)
	}
	if err := f.SetCellStyle(sheet, dst, dst, styleID); err != nil {
		return fmt.Errorf("write style %s: %w", dst, err)
	}
	return nil
}
