package pipeline

import (
	"fmt"
	"strings"

	"ats-console/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Candidates"
	otherStage      = "Other"
)

// ExportBoard renders the board as an xlsx workbook with a Summary sheet and a
// Candidates sheet.
func ExportBoard(board *Board, job *models.Job) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return nil, fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, header, board, job); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeCandidates(f, header, board); err != nil {
		return nil, fmt.Errorf("failed to write candidates sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, header int, board *Board, job *models.Job) error {
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 40)

	rows := [][]interface{}{}
	if job != nil {
		rows = append(rows,
			[]interface{}{"Job", job.Title},
			[]interface{}{"Status", string(job.Status)},
			[]interface{}{"Employment Type", string(job.EmploymentType)},
		)
	}
	rows = append(rows, []interface{}{"Stage", "Candidates"})
	headerRow := len(rows)
	for _, c := range board.Columns {
		rows = append(rows, []interface{}{string(c.Stage), c.Count})
	}
	if len(board.Other) > 0 {
		rows = append(rows, []interface{}{otherStage, len(board.Other)})
	}
	rows = append(rows, []interface{}{"Total", board.Total()})

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}
	from, _ := excelize.CoordinatesToCellName(1, headerRow)
	to, _ := excelize.CoordinatesToCellName(2, headerRow)
	return f.SetCellStyle(summarySheet, from, to, header)
}

func writeCandidates(f *excelize.File, header int, board *Board) error {
	headers := []interface{}{"Stage", "Name", "Email", "Applied At", "Skills"}
	if err := f.SetSheetRow(candidatesSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(candidatesSheet, "A1", "E1", header); err != nil {
		return err
	}
	f.SetColWidth(candidatesSheet, "A", "A", 20)
	f.SetColWidth(candidatesSheet, "B", "C", 30)
	f.SetColWidth(candidatesSheet, "D", "D", 22)
	f.SetColWidth(candidatesSheet, "E", "E", 50)

	row := 2
	write := func(stage string, apps []models.Application) error {
		for _, a := range apps {
			values := []interface{}{stage, a.Applicant.Name, a.Applicant.Email, a.AppliedAt, strings.Join(a.Applicant.Skills, ", ")}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(candidatesSheet, cell, &values); err != nil {
				return err
			}
			row++
		}
		return nil
	}
	for _, c := range board.Columns {
		if err := write(string(c.Stage), c.Applications); err != nil {
			return err
		}
	}
	if err := write(otherStage, board.Other); err != nil {
		return err
	}

	return f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
