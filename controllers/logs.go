package controllers

import (
	"strconv"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetLogs returns activity logs with pagination and filters (admin only)
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit > 200 {
		limit = 200
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{})

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at <= ?", t.Add(24*time.Hour-time.Nanosecond))
		}
	}

	var total int64
	query.Count(&total)

	var logs []models.ActivityLog
	if err := query.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// FlushCachedLogs forces the Redis write-behind queue into the database
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	service := services.NewLogArchiveService()
	if err := service.FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cached logs flushed to database",
	})
}
