// Package export writes the loaded dataset in downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/xuri/excelize/v2"

	"coviddash/internal/engine"
	"coviddash/internal/models"
)

const (
	regionsSheet = "Regions"
	countrySheet = "Country"
)

// WriteRegionCSV writes the region totals with a header row.
func WriteRegionCSV(w io.Writer, totals []models.RegionDayTotal) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"region", "day", "deaths"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, t := range totals {
		row := []string{t.Region, t.Day.String(), strconv.FormatInt(t.Deaths, 10)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteWorkbook writes an xlsx file with one sheet per aggregation.
func WriteWorkbook(w io.Writer, data *models.DashboardData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", regionsSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(countrySheet); err != nil {
		return fmt.Errorf("xlsx: new sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(data.RegionTotals)+1)
	rows = append(rows, []interface{}{"Region", "Date", "Deaths"})
	for _, t := range data.RegionTotals {
		rows = append(rows, []interface{}{t.Region, t.Day.String(), t.Deaths})
	}
	if err := writeRows(f, regionsSheet, rows); err != nil {
		return err
	}

	rows = rows[:0]
	rows = append(rows, []interface{}{"Date", "Deaths"})
	for _, t := range data.CountryTotals {
		rows = append(rows, []interface{}{t.Day.String(), t.Deaths})
	}
	if err := writeRows(f, countrySheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteArrow writes the raw table as an Arrow IPC stream.
func WriteArrow(w io.Writer, store *engine.ColumnStore) error {
	mem := memory.NewGoAllocator()

	rec := store.ToArrow(mem)
	defer rec.Release()

	aw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := aw.Write(rec); err != nil {
		_ = aw.Close()
		return fmt.Errorf("arrow: write record: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("arrow: close: %w", err)
	}
	return nil
}
