// Package export writes tabular data to download formats shared by the
// performance and export screens.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CSV streams headers and rows as a CSV attachment.
func CSV(w http.ResponseWriter, filename string, headers []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "failed to write CSV headers", http.StatusInternalServerError)
		return
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			http.Error(w, "failed to write CSV row", http.StatusInternalServerError)
			return
		}
	}
}

// Excel streams headers and rows as an xlsx attachment named after the sheet.
func Excel(w http.ResponseWriter, sheetName string, headers []string, rows [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		http.Error(w, "failed to create sheet", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "failed to create header style", http.StatusInternalServerError)
		return
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", column(i))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", column(colIdx), rowIdx+2), value)
		}
	}

	for i := range headers {
		col := column(i)
		f.SetColWidth(sheetName, col, col, 15)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", strings.ToLower(sheetName)))

	if err := f.Write(w); err != nil {
		http.Error(w, "failed to write workbook", http.StatusInternalServerError)
		return
	}
}

// column maps a zero-based index to a spreadsheet column name (A..Z, AA..).
func column(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}
