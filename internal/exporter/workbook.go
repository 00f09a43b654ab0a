package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetTeamOverall   = "Team Overall"
	SheetTeamGame      = "Team Games"
	SheetPlayerOverall = "Player Overall"
	SheetPlayerGame    = "Player Games"
)

// WriteWorkbook writes the four season tables as one workbook, one sheet per
// table, with the same headers and cell text as the CSV outputs.
func WriteWorkbook(w io.Writer, season *domain.Season) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{SheetTeamOverall, TeamOverallHeaders, TeamOverallRecords(season.Teams)},
		{SheetTeamGame, TeamGameHeaders, TeamGameRecords(season.TeamGames)},
		{SheetPlayerOverall, PlayerOverallHeaders, PlayerOverallRecords(season.Players)},
		{SheetPlayerGame, PlayerGameHeaders, PlayerGameRecords(season.PlayerGames)},
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if err := writeSheetRow(f, sheet.name, 1, sheet.headers); err != nil {
			return err
		}
		for r, record := range sheet.records {
			if err := writeSheetRow(f, sheet.name, r+2, record); err != nil {
				return err
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetTeamOverall); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
