package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"slotbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Записи"

// AppointmentSource is the slice of the store the exporter needs.
type AppointmentSource interface {
	GetAppointmentsInRange(ctx context.Context, professionalID int64, start, end time.Time) ([]*models.Appointment, error)
}

// Exporter writes appointment reports as Excel files.
type Exporter struct {
	source AppointmentSource
	path   string
	logger *zerolog.Logger
}

func NewExporter(source AppointmentSource, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{source: source, path: path, logger: logger}
}

// ExportAppointments создает Excel файл с записями за период
func (e *Exporter) ExportAppointments(ctx context.Context, professionalID int64, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	appointments, err := e.source.GetAppointmentsInRange(ctx, professionalID, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting appointments: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "I1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{
		"ID", "Номер", "Услуга", "Клиент", "Email", "Телефон", "Начало", "Конец", "Статус",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, appointment := range appointments {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), appointment.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), appointment.PublicID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), appointment.ServiceName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), appointment.ClientName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), appointment.ClientEmail)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), appointment.ClientPhone)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), appointment.StartAt.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), appointment.EndAt.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), statusLabel(appointment.Status))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 38)
	_ = f.SetColWidth(sheetName, "C", "F", 22)
	_ = f.SetColWidth(sheetName, "G", "H", 18)
	_ = f.SetColWidth(sheetName, "I", "I", 14)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("appointments_%d_%s_to_%s.xlsx",
		professionalID,
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(appointments)).Msg("Excel file created")
	return filePath, nil
}

// statusLabel переводит статус для отчета
func statusLabel(status string) string {
	switch status {
	case models.StatusPending:
		return "Ожидает"
	case models.StatusConfirmed:
		return "Подтверждена"
	case models.StatusCancelled:
		return "Отменена"
	case models.StatusCompleted:
		return "Завершена"
	}
	return status
}
