package services

import (
	"fmt"
	"time"

	"feeadmin_go/models"

	"github.com/xuri/excelize/v2"
)

var feeReportHeaders = []string{
	"Receipt No", "Roll No", "Student", "Department", "Fee Type",
	"Amount", "Paid Amount", "Status", "Payment Method", "Due Date",
	"Paid Date", "Created At",
}

// BuildFeeReportWorkbook renders payment records into a spreadsheet. Records
// must be preloaded with Student and Student.Department.
func BuildFeeReportWorkbook(records []models.PaymentRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, header := range feeReportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %v", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(feeReportHeaders), 1)
		f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, r := range records {
		row := i + 2
		studentName := r.Student.FirstName
		if r.Student.LastName != "" {
			studentName += " " + r.Student.LastName
		}

		values := []interface{}{
			r.ReceiptNo,
			r.Student.RollNo,
			studentName,
			r.Student.Department.Name,
			r.FeeType,
			r.Amount,
			r.PaidAmount,
			r.Status,
			r.PaymentMethod,
			formatDate(r.DueDate),
			formatDate(r.PaidDate),
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %v", row, err)
			}
		}
	}

	return f, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
