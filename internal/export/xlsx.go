package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"studio/internal/models"

	"github.com/xuri/excelize/v2"
)

const appointmentsSheet = "Заявки"

var appointmentHeaders = []string{
	"ID", "Имя", "Телефон", "Дата", "Время", "Комментарий", "Статус", "Источник", "Создана",
}

// XLSXWriter renders the admin appointment list into a spreadsheet.
type XLSXWriter struct {
	Dir string
	Now func() time.Time
}

func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{Dir: dir, Now: time.Now}
}

// WriteAppointments saves appointments_<date>.xlsx into Dir.
func (w *XLSXWriter) WriteAppointments(appointments []models.Appointment) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(appointmentsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range appointmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(appointmentsSheet, cell, h)
		_ = f.SetCellStyle(appointmentsSheet, cell, cell, headerStyle)
	}

	for r, a := range appointments {
		row := []any{
			string(a.ID), a.ClientName, a.Phone, a.PreferredDate, a.PreferredTime,
			a.Note, a.Status, a.Source, a.CreatedAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(appointmentsSheet, cell, &row); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", r+2, err)
		}
	}

	_ = f.SetColWidth(appointmentsSheet, "A", "A", 12)
	_ = f.SetColWidth(appointmentsSheet, "B", "C", 22)
	_ = f.SetColWidth(appointmentsSheet, "D", "E", 12)
	_ = f.SetColWidth(appointmentsSheet, "F", "F", 40)
	_ = f.SetColWidth(appointmentsSheet, "G", "I", 16)
	_ = f.DeleteSheet("Sheet1")

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	path := filepath.Join(w.Dir, fmt.Sprintf("appointments_%s.xlsx", now().Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return path, nil
}
