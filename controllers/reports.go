package controllers

import (
	"strconv"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/storage"

	"github.com/gofiber/fiber/v2"
)

// ReportController lists archived monthly fee reports and hands out
// short-lived download links.
type ReportController struct{}

// GetReports returns archived report metadata, newest first
func (rc *ReportController) GetReports(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ReportArchive{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var reports []models.ReportArchive
	if err := query.Order("period_start DESC").
		Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reports",
		})
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetReportDownloadURL returns a presigned S3 URL for one archived report
func (rc *ReportController) GetReportDownloadURL(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.ReportArchive
	if err := database.DB.First(&report, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}
	if report.Status != "completed" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Report is not available for download",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage service not available",
		})
	}

	url, err := storageService.GetPresignedURL(report.S3Key, 15*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate download URL",
		})
	}

	return c.JSON(fiber.Map{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}
