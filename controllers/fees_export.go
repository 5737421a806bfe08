package controllers

import (
	"fmt"
	"strings"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ExportFees GET /api/fees/export
// Streams the filtered payment ledger as an xlsx workbook. Accepts the same
// filters as ListFees minus pagination; large exports are capped.
func (fc *FeeController) ExportFees(c *fiber.Ctx) error {
	q := database.DB.Model(&models.PaymentRecord{})

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		q = q.Where("student_id = ?", v)
	}
	if v := strings.TrimSpace(c.Query("fee_type")); v != "" {
		q = q.Where("fee_type = ?", v)
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("department_id")); v != "" {
		q = q.Joins("JOIN students ON students.id = payment_records.student_id").
			Where("students.department_id = ?", v)
	}
	if v := strings.TrimSpace(c.Query("date_from")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("payment_records.created_at >= ?", t)
		}
	}
	if v := strings.TrimSpace(c.Query("date_to")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			tend := t.Add(24*time.Hour - time.Nanosecond)
			q = q.Where("payment_records.created_at <= ?", tend)
		}
	}

	var records []models.PaymentRecord
	if err := q.Preload("Student").Preload("Student.Department").
		Order("payment_records.created_at ASC, payment_records.id ASC").
		Limit(10000).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment records",
		})
	}

	f, err := services.BuildFeeReportWorkbook(records)
	if err != nil {
		logrus.WithError(err).Error("Failed to build fee report workbook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build report",
		})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render report",
		})
	}

	filename := fmt.Sprintf("fee-report-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
