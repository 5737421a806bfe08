package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/storage"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// LogArchiveService flushes write-behind activity logs from Redis into the
// database and archives old rows to S3 as zipped JSON.
type LogArchiveService struct {
	redisClient *redis.Client
	storage     *storage.StorageService
}

// ArchivedLog is the exported representation stored inside archives
type ArchivedLog struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
	Username   string         `json:"username,omitempty"`
	UserRole   string         `json:"user_role,omitempty"`
}

// NewLogArchiveService creates a new service instance
func NewLogArchiveService() *LogArchiveService {
	st, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable; log archiving disabled")
	}
	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		storage:     st,
	}
}

// FlushCachedLogsToDatabase moves logs older than 24h from Redis to the database
func (las *LogArchiveService) FlushCachedLogsToDatabase() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoffTime := time.Now().Add(-24 * time.Hour)

	expiredLogs, err := las.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoffTime.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get expired logs: %v", err)
	}

	var processedCount, errorCount int
	for _, logKey := range expiredLogs {
		logData, err := las.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
			}
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to save cached log to database")
			errorCount++
			continue
		}

		pipeline := las.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}
		processedCount++
	}

	if processedCount > 0 || errorCount > 0 {
		logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	}
	return nil
}

// ArchiveOldLogs archives logs older than daysOld to S3 and deletes them
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days for safety")
	}
	if las.storage == nil {
		return fmt.Errorf("storage service not available")
	}

	cutoffDate := time.Now().AddDate(0, 0, -daysOld)
	batchSize := 1000
	var allLogs []ArchivedLog

	for {
		var logs []models.ActivityLog
		err := database.DB.
			Preload("User").
			Where("created_at < ?", cutoffDate).
			Limit(batchSize).
			Find(&logs).Error
		if err != nil {
			return fmt.Errorf("failed to fetch logs for archiving: %v", err)
		}
		if len(logs) == 0 {
			break
		}

		ids := make([]uint, 0, len(logs))
		for _, l := range logs {
			var details map[string]any
			if !l.Details.IsNull() {
				_ = json.Unmarshal(l.Details, &details)
			}
			allLogs = append(allLogs, ArchivedLog{
				ID:         l.ID,
				UserID:     l.UserID,
				Action:     l.Action,
				Resource:   l.Resource,
				ResourceID: l.ResourceID,
				Details:    details,
				IPAddress:  l.IPAddress,
				UserAgent:  l.UserAgent,
				CreatedAt:  l.CreatedAt,
				Username:   l.User.Username,
				UserRole:   l.User.Role,
			})
			ids = append(ids, l.ID)
		}

		if err := database.DB.Unscoped().Delete(&models.ActivityLog{}, ids).Error; err != nil {
			return fmt.Errorf("failed to delete archived logs: %v", err)
		}
	}

	if len(allLogs) == 0 {
		return nil
	}

	data, err := buildLogArchiveZip(allLogs)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("activity-logs-%s.zip", time.Now().Format("20060102-150405"))
	key, err := las.storage.UploadReport("logs", filename, data, "application/zip")
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"key":   key,
		"count": len(allLogs),
	}).Info("Archived activity logs to S3")
	return nil
}

func buildLogArchiveZip(logs []ArchivedLog) ([]byte, error) {
	payload, err := json.Marshal(logs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal logs: %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("activity_logs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %v", err)
	}
	return buf.Bytes(), nil
}

// StartLogMaintenanceScheduler starts a background goroutine to flush and
// archive logs periodically
func (las *LogArchiveService) StartLogMaintenanceScheduler() {
	go func() {
		if err := las.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("initial FlushCachedLogsToDatabase failed")
		}

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := las.FlushCachedLogsToDatabase(); err != nil {
				logrus.WithError(err).Warn("periodic FlushCachedLogsToDatabase failed")
			}
			if err := las.ArchiveOldLogs(90); err != nil {
				logrus.WithError(err).Warn("periodic ArchiveOldLogs failed")
			}
		}
	}()
}
