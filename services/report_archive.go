package services

import (
	"fmt"
	"time"

	"feeadmin_go/config"
	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/storage"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReportArchiveService renders the previous month's payment ledger to a
// workbook and uploads it to S3. Each run leaves a ReportArchive row so the
// dashboard can list and re-download old reports.
type ReportArchiveService struct {
	db      *gorm.DB
	storage *storage.StorageService
	cron    *cron.Cron
}

func NewReportArchiveService() *ReportArchiveService {
	st, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable; report archiving disabled")
	}
	return &ReportArchiveService{
		db:      database.DB,
		storage: st,
		cron:    cron.New(),
	}
}

// Start registers the monthly archive run
func (ras *ReportArchiveService) Start() {
	if ras.storage == nil {
		return
	}
	spec := config.AppConfig.ReportArchiveCron
	if _, err := ras.cron.AddFunc(spec, func() {
		if err := ras.ArchiveLastMonth(); err != nil {
			logrus.WithError(err).Error("Monthly report archive failed")
		}
	}); err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Failed to register report archive job")
		return
	}
	ras.cron.Start()
	logrus.WithField("spec", spec).Info("Report archive scheduler started")
}

// Stop halts the cron loop
func (ras *ReportArchiveService) Stop() {
	ctx := ras.cron.Stop()
	<-ctx.Done()
}

// ArchiveLastMonth archives the calendar month before the current one.
func (ras *ReportArchiveService) ArchiveLastMonth() error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	periodStart := monthStart.AddDate(0, -1, 0)
	periodEnd := monthStart.Add(-time.Nanosecond)
	return ras.ArchivePeriod(periodStart, periodEnd)
}

// ArchivePeriod renders and uploads the ledger between start and end.
func (ras *ReportArchiveService) ArchivePeriod(start, end time.Time) error {
	if ras.storage == nil {
		return fmt.Errorf("storage service not available")
	}

	archive := models.ReportArchive{
		FileName:    fmt.Sprintf("fee-report-%s.xlsx", start.Format("2006-01")),
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      "pending",
	}
	if err := ras.db.Create(&archive).Error; err != nil {
		return fmt.Errorf("failed to create archive row: %v", err)
	}

	fail := func(err error) error {
		ras.db.Model(&archive).Updates(map[string]interface{}{
			"status": "failed",
			"error":  err.Error(),
		})
		return err
	}

	var records []models.PaymentRecord
	err := ras.db.Preload("Student").Preload("Student.Department").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return fail(fmt.Errorf("failed to load payment records: %v", err))
	}

	f, err := BuildFeeReportWorkbook(records)
	if err != nil {
		return fail(fmt.Errorf("failed to build workbook: %v", err))
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fail(fmt.Errorf("failed to render workbook: %v", err))
	}

	key, err := ras.storage.UploadReport("reports", archive.FileName, buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return fail(err)
	}

	if err := ras.db.Model(&archive).Updates(map[string]interface{}{
		"s3_key":       key,
		"record_count": len(records),
		"file_size":    int64(buf.Len()),
		"status":       "completed",
	}).Error; err != nil {
		return fmt.Errorf("failed to finalize archive row: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"key":     key,
		"records": len(records),
	}).Info("Archived monthly fee report")
	return nil
}
