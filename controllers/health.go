package controllers

import (
	"feeadmin_go/database"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

// GetHealth reports service and dependency status
func (hc *HealthController) GetHealth(c *fiber.Ctx) error {
	dbStatus := "ok"
	if database.DB == nil {
		dbStatus = "down"
	} else if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "ok"
	if database.GetRedisClient() == nil {
		redisStatus = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
