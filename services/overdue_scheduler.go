package services

import (
	"time"

	"feeadmin_go/config"
	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/services/websocket"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OverdueScheduler flips pending and partial records past their due date to
// overdue and notifies the admins. Runs nightly.
type OverdueScheduler struct {
	db   *gorm.DB
	hub  *websocket.Hub
	cron *cron.Cron
}

func NewOverdueScheduler(hub *websocket.Hub) *OverdueScheduler {
	return &OverdueScheduler{
		db:   database.DB,
		hub:  hub,
		cron: cron.New(),
	}
}

// Start registers the nightly scan. The schedule comes from configuration so
// deployments in other timezones can move it off peak hours.
func (sched *OverdueScheduler) Start() {
	spec := config.AppConfig.OverdueScanCron
	if _, err := sched.cron.AddFunc(spec, func() {
		if err := sched.ScanOverdue(); err != nil {
			logrus.WithError(err).Error("Overdue scan failed")
		}
	}); err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Failed to register overdue scan")
		return
	}
	sched.cron.Start()
	logrus.WithField("spec", spec).Info("Overdue scheduler started")
}

// Stop halts the cron loop. Pending scan runs finish first.
func (sched *OverdueScheduler) Stop() {
	ctx := sched.cron.Stop()
	<-ctx.Done()
}

// ScanOverdue marks records past due and reports how many were flipped.
func (sched *OverdueScheduler) ScanOverdue() error {
	now := time.Now()

	var due []models.PaymentRecord
	err := sched.db.Preload("Student").
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{"pending", "partial"}, now).
		Find(&due).Error
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	if err := sched.db.Model(&models.PaymentRecord{}).
		Where("id IN ?", ids).
		Update("status", "overdue").Error; err != nil {
		return err
	}

	logrus.WithField("count", len(due)).Info("Marked payment records overdue")
	sched.notifyAdmins(due)
	return nil
}

func (sched *OverdueScheduler) notifyAdmins(records []models.PaymentRecord) {
	var admins []models.User
	if err := sched.db.Where("role IN ? AND status = ?", []string{"owner", "admin"}, "active").
		Find(&admins).Error; err != nil {
		logrus.WithError(err).Warn("Failed to load admins for overdue notification")
		return
	}

	for _, admin := range admins {
		for _, r := range records {
			notification := models.Notification{
				UserID:  admin.ID,
				Title:   "Payment overdue",
				Message: r.Student.FirstName + " " + r.Student.LastName + " (" + r.Student.RollNo + "): " + r.FeeType + " past due date",
				Type:    "warning",
			}
			if err := sched.db.Create(&notification).Error; err != nil {
				logrus.WithError(err).Warn("Failed to create overdue notification")
				continue
			}
			if sched.hub != nil {
				sched.hub.BroadcastToUser(admin.ID, websocket.Message{
					Type: "payment_overdue",
					Data: notification,
				})
			}
		}
	}
}
