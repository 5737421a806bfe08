package middleware

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"feeadmin_go/config"
	"feeadmin_go/database"
	"feeadmin_go/models"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		// Log request
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records a user action on a resource. Logs are cached in Redis
// first (write-behind) and fall back to a direct database insert when Redis
// is unavailable.
func LogActivity(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	// Get current user
	user, err := GetCurrentUser(c)
	if err != nil {
		// If no authenticated user, log as system action
		user = &models.User{BaseModel: models.BaseModel{ID: 0}}
	}

	var detailsJSON models.JSON
	if details != nil {
		if detailsBytes, err := json.Marshal(details); err == nil {
			detailsJSON = detailsBytes
		}
	}

	activityLog := models.ActivityLog{
		UserID:     user.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}
	activityLog.CreatedAt = time.Now()

	// Wrap the caller's details with request metadata and an integrity hash
	// for tamper detection.
	auditDetails := map[string]interface{}{
		"original_details": details,
		"integrity_hash":   generateIntegrityHash(activityLog),
		"request_id":       c.Get("X-Request-ID", generateRequestID()),
		"forwarded_for":    c.Get("X-Forwarded-For"),
		"protocol":         c.Protocol(),
		"method":           c.Method(),
		"path":             c.Path(),
		"query":            string(c.Request().URI().QueryString()),
		"status_code":      c.Response().StatusCode(),
		"timestamp_utc":    time.Now().UTC().Unix(),
	}
	if auditBytes, err := json.Marshal(auditDetails); err == nil {
		activityLog.Details = auditBytes
	}

	go func(al models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in LogActivity goroutine")
			}
		}()

		if config.AppConfig.UseRedisActivityLog {
			if err := cacheActivityLog(al); err == nil {
				return
			} else {
				logrus.WithError(err).Warn("Failed to cache activity log, saving directly to database")
			}
		}
		if database.DB == nil {
			logrus.Error("database.DB is nil; cannot save activity log to database")
			return
		}
		if dbErr := database.DB.Create(&al).Error; dbErr != nil {
			logrus.WithError(dbErr).Error("Failed to save activity log to database")
		}
	}(activityLog)
}

// generateIntegrityHash creates a hash for tamper detection
func generateIntegrityHash(log models.ActivityLog) string {
	data := fmt.Sprintf("%d:%s:%s:%d:%s:%s:%s",
		log.UserID,
		log.Action,
		log.Resource,
		log.ResourceID,
		log.IPAddress,
		log.UserAgent,
		log.CreatedAt.Format(time.RFC3339),
	)
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// generateRequestID creates a unique request identifier
func generateRequestID() string {
	return fmt.Sprintf("req_%d_%x", time.Now().UnixNano(), md5.Sum([]byte(fmt.Sprintf("%d", time.Now().UnixNano()))))
}

// cacheActivityLog stores activity log in Redis with 24-hour TTL
func cacheActivityLog(log models.ActivityLog) error {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	logData, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %v", err)
	}

	cacheKey := fmt.Sprintf("log:%d:%s:%d", log.UserID, log.Action, time.Now().UnixNano())

	if err := redisClient.Set(ctx, cacheKey, logData, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to cache log: %v", err)
	}

	// Also add to a sorted set so the flush job can drain in order
	if err := redisClient.ZAdd(ctx, "logs:queue", &redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: cacheKey,
	}).Err(); err != nil {
		logrus.WithError(err).Error("Failed to add log to processing queue")
	}

	return nil
}

// LogActivityMiddleware automatically logs CRUD operations
func LogActivityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for GET requests and auth endpoints
		if c.Method() == "GET" || strings.Contains(c.Path(), "/auth/") {
			return c.Next()
		}

		// Process request
		err := c.Next()

		// Determine action based on method
		var action string
		switch c.Method() {
		case "POST":
			action = "CREATE"
		case "PUT", "PATCH":
			action = "UPDATE"
		case "DELETE":
			action = "DELETE"
		default:
			return err
		}

		// Extract resource from path
		pathParts := strings.Split(strings.Trim(c.Path(), "/"), "/")
		var resource string
		if len(pathParts) >= 2 {
			resource = pathParts[1] // assumes /api/resource format
		}

		// Extract resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, parseErr := strconv.ParseUint(id, 10, 32); parseErr == nil {
				resourceID = uint(parsedID)
			}
		}

		// Log only if request was successful
		if c.Response().StatusCode() < 400 {
			LogActivity(c, action, resource, resourceID, nil)
		}

		return err
	}
}
