package xlsx

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, build func(f *excelize.File, sheet string)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	build(f, sheet)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func openResult(t *testing.T, raw []byte) (*excelize.File, string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f, f.GetSheetName(0)
}

func TestFlattenShiftsHeaderBlockToTop(t *testing.T) {
	raw := buildWorkbook(t, func(f *excelize.File, sheet string) {
		if err := f.SetCellValue(sheet, "A1", "Q3 Media Plan"); err != nil {
			t.Fatalf("banner: %v", err)
		}
		if err := f.SetCellValue(sheet, "A3", "Prepared for review"); err != nil {
			t.Fatalf("banner: %v", err)
		}
		if err := f.SetSheetRow(sheet, "A4", &[]interface{}{"Day", "Channel Name", "Imps", "Spend"}); err != nil {
			t.Fatalf("headers: %v", err)
		}
		for r := 5; r <= 20; r++ {
			row := []interface{}{fmt.Sprintf("2025-07-%02d", r-4), "TV", (r - 4) * 100, (r - 4) * 25}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &row); err != nil {
				t.Fatalf("row %d: %v", r, err)
			}
		}
		if err := f.SetCellFormula(sheet, "D5", "C5*0.5"); err != nil {
			t.Fatalf("formula: %v", err)
		}
	})

	out, err := Flatten(raw, 4, []Rename{
		{ColumnIndex: 0, Header: "Date"},
		{ColumnIndex: 2, Header: "Impressions"},
		{ColumnIndex: 3, Header: "Cost"},
	})
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	f, sheet := openResult(t, out)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if len(rows) != 17 {
		t.Fatalf("expected 17 rows after shift, got %d", len(rows))
	}

	header := rows[0]
	want := []string{"Date", "Channel Name", "Impressions", "Cost"}
	for i, field := range want {
		if header[i] != field {
			t.Fatalf("header col %d: expected %q, got %q", i, field, header[i])
		}
	}

	if got, _ := f.GetCellValue(sheet, "A2"); got != "2025-07-01" {
		t.Fatalf("expected first data row at row 2, got A2=%q", got)
	}
	if got, _ := f.GetCellValue(sheet, "A17"); got != "2025-07-16" {
		t.Fatalf("expected last data row at row 17, got A17=%q", got)
	}
	if got, _ := f.GetCellValue(sheet, "C17"); got != "1600" {
		t.Fatalf("expected shifted value at C17, got %q", got)
	}

	// The formula moves rows but its text must not be rewritten.
	if got, _ := f.GetCellFormula(sheet, "D2"); got != "C5*0.5" {
		t.Fatalf("expected formula carried verbatim, got %q", got)
	}
}

func TestFlattenHeaderAlreadyOnFirstRow(t *testing.T) {
	raw := buildWorkbook(t, func(f *excelize.File, sheet string) {
		if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Day", "Spend"}); err != nil {
			t.Fatalf("headers: %v", err)
		}
		if err := f.SetSheetRow(sheet, "A2", &[]interface{}{"Mon", 120}); err != nil {
			t.Fatalf("row: %v", err)
		}
		if err := f.SetSheetRow(sheet, "A3", &[]interface{}{"Tue", 80}); err != nil {
			t.Fatalf("row: %v", err)
		}
	})

	out, err := Flatten(raw, 1, []Rename{{ColumnIndex: 1, Header: "Cost"}})
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	f, sheet := openResult(t, out)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected row count unchanged, got %d", len(rows))
	}
	if got, _ := f.GetCellValue(sheet, "A1"); got != "Day" {
		t.Fatalf("expected unmapped header untouched, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B1"); got != "Cost" {
		t.Fatalf("expected renamed header, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B3"); got != "80" {
		t.Fatalf("expected data untouched, got %q", got)
	}
}

func TestFlattenRejectsCorruptWorkbook(t *testing.T) {
	if _, err := Flatten([]byte("not a workbook"), 1, nil); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

func TestFlattenRejectsHeaderRowBeyondSheet(t *testing.T) {
	raw := buildWorkbook(t, func(f *excelize.File, sheet string) {
		if err := f.SetCellValue(sheet, "A1", "only row"); err != nil {
			t.Fatalf("cell: %v", err)
		}
	})
	if _, err := Flatten(raw, 9, nil); err == nil {
		t.Fatalf("expected error for header row beyond sheet")
	}
}
