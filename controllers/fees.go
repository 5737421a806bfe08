package controllers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/feecore"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"feeadmin_go/services/websocket"
	"feeadmin_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FeeController provides the payment ledger endpoints. All balance math goes
// through the feecore package; nothing here recomputes owed or remaining
// amounts on its own.
type FeeController struct {
	hub *websocket.Hub
}

func NewFeeController(hub *websocket.Hub) *FeeController {
	return &FeeController{hub: hub}
}

// AddFeeRequest is the payload of the fee entry form
type AddFeeRequest struct {
	StudentID     uint   `json:"student_id"`
	FeeType       string `json:"fee_type"`
	Amount        int    `json:"amount"`
	PaidAmount    int    `json:"paid_amount"`
	Status        string `json:"status"`
	DueDate       string `json:"due_date"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
	ChequeNo      string `json:"cheque_no"`
	BankName      string `json:"bank_name"`
	Remarks       string `json:"remarks"`
}

// ListFees GET /api/fees
// Query params: page, page_size, student_id, department_id, fee_type, status,
// receipt_no, date_from, date_to
func (fc *FeeController) ListFees(c *fiber.Ctx) error {
	db := database.DB

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	q := db.Model(&models.PaymentRecord{})

	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		q = q.Where("student_id = ?", v)
	}
	if v := strings.TrimSpace(c.Query("fee_type")); v != "" {
		q = q.Where("fee_type = ?", v)
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		if !utils.IsValidPaymentStatus(v) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status filter",
			})
		}
		q = q.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("receipt_no")); v != "" {
		q = q.Where("receipt_no = ?", v)
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

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var records []models.PaymentRecord
	if err := q.Preload("Student").Preload("Student.Department").
		Order("payment_records.created_at DESC, payment_records.id DESC").
		Limit(pageSize).Offset(offset).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"records":   records,
	})
}

// GetFee GET /api/fees/:id
func (fc *FeeController) GetFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment record ID",
		})
	}

	var record models.PaymentRecord
	if err := database.DB.Preload("Student").Preload("Student.Department").
		Preload("Collector").First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment record not found",
		})
	}

	return c.JSON(fiber.Map{
		"record": record,
	})
}

// AddFee POST /api/fees
// The fee entry form. The new payment is validated against the student's
// reconciled balances before anything is written: zero or negative amounts,
// unknown fee types, settled fee types and amounts above the remaining
// balance are all rejected. Fines bypass the ceiling.
func (fc *FeeController) AddFee(c *fiber.Ctx) error {
	var req AddFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.StudentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student ID is required",
		})
	}
	if !feecore.ValidFeeType(feecore.FeeType(req.FeeType)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee type",
		})
	}
	if req.Status == "" {
		req.Status = string(feecore.StatusPending)
	}
	if !allowedEntryStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}
	if req.PaymentMethod != "" && !utils.IsValidPaymentMethod(req.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method",
		})
	}
	if err := checkEntryAmounts(req.Amount, req.PaidAmount); err != nil {
		return c.Status(feeValidationStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment ledger",
		})
	}

	result := feecore.Reconcile(utils.ToFeecoreStructure(student), utils.ToFeecorePayments(records))
	if err := feecore.ValidateNewPayment(result, feecore.FeeType(req.FeeType), req.Amount); err != nil {
		return c.Status(feeValidationStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	record := models.PaymentRecord{
		StudentID:     student.ID,
		FeeType:       req.FeeType,
		Amount:        req.Amount,
		PaidAmount:    req.PaidAmount,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		ChequeNo:      req.ChequeNo,
		BankName:      req.BankName,
		Remarks:       utils.SanitizeString(req.Remarks),
		ReceiptNo:     generateReceiptNo(),
	}

	if req.DueDate != "" {
		if t, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			record.DueDate = &t
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid due date, expected YYYY-MM-DD",
			})
		}
	}
	if record.Status == string(feecore.StatusPaid) {
		now := time.Now()
		record.PaidDate = &now
		if record.PaidAmount == 0 {
			record.PaidAmount = record.Amount
		}
	}
	if user, err := middleware.GetCurrentUser(c); err == nil {
		record.CollectedBy = user.ID
	}

	if err := database.DB.Create(&record).Error; err != nil {
		logrus.WithError(err).Error("Failed to create payment record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create payment record",
		})
	}

	middleware.LogActivity(c, "CREATE", "payment_records", record.ID, record)
	fc.notifyPayment(&student, &record, "payment_recorded")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"record":  record,
	})
}

// SettleFee PATCH /api/fees/:id/settle
// Marks a pending, partial or overdue record as paid. The credited amount is
// re-checked against the current reconciled balance so a record that would
// now overshoot its fee type is not settled silently.
func (fc *FeeController) SettleFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment record ID",
		})
	}

	var record models.PaymentRecord
	if err := database.DB.Preload("Student").First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment record not found",
		})
	}
	if record.Status == string(feecore.StatusPaid) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Payment record is already paid",
		})
	}

	var body struct {
		PaidAmount    int    `json:"paid_amount"`
		PaymentMethod string `json:"payment_method"`
		TransactionID string `json:"transaction_id"`
	}
	// Body is optional; defaults settle the full recorded amount
	_ = c.BodyParser(&body)

	if body.PaymentMethod != "" && !utils.IsValidPaymentMethod(body.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method",
		})
	}

	credited := record.Amount
	if body.PaidAmount > 0 {
		credited = body.PaidAmount
	} else if record.PaidAmount > 0 {
		credited = record.PaidAmount
	}
	if err := checkEntryAmounts(record.Amount, credited); err != nil {
		return c.Status(feeValidationStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.Where("student_id = ?", record.StudentID).
		Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment ledger",
		})
	}

	// Pending records carry no credit, so reconciling the full ledger here
	// yields the balance without this record.
	result := feecore.Reconcile(utils.ToFeecoreStructure(record.Student), utils.ToFeecorePayments(records))
	if err := feecore.ValidateNewPayment(result, feecore.FeeType(record.FeeType), credited); err != nil {
		return c.Status(feeValidationStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      string(feecore.StatusPaid),
		"paid_amount": credited,
		"paid_date":   &now,
	}
	if body.PaymentMethod != "" {
		updates["payment_method"] = body.PaymentMethod
	}
	if body.TransactionID != "" {
		updates["transaction_id"] = body.TransactionID
	}

	if err := database.DB.Model(&record).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to settle payment record",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payment_records", record.ID, updates)
	fc.notifyPayment(&record.Student, &record, "payment_settled")

	return c.JSON(fiber.Map{
		"message": "Payment settled successfully",
		"record":  record,
	})
}

// GetReceipt GET /api/fees/:id/receipt
// The receipt shows the balance as it stood at the moment of this payment,
// taken from the reconciliation timeline rather than the current totals.
func (fc *FeeController) GetReceipt(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment record ID",
		})
	}

	var record models.PaymentRecord
	if err := database.DB.Preload("Student").Preload("Student.Department").
		First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment record not found",
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.Where("student_id = ?", record.StudentID).
		Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment ledger",
		})
	}

	result := feecore.Reconcile(utils.ToFeecoreStructure(record.Student), utils.ToFeecorePayments(records))
	entry, ok := timelineEntryFor(records, result, record.ID)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Payment record missing from timeline",
		})
	}

	return c.JSON(fiber.Map{
		"receipt": utils.ToReceiptDTO(record, entry),
	})
}

// GetStudentTimeline GET /api/students/:id/timeline
func (fc *FeeController) GetStudentTimeline(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment ledger",
		})
	}

	result := feecore.Reconcile(utils.ToFeecoreStructure(student), utils.ToFeecorePayments(records))

	return c.JSON(fiber.Map{
		"student_id": student.ID,
		"timeline":   result.Timeline,
		"aggregate":  result.Aggregate,
	})
}

// timelineEntryFor locates the timeline entry produced for one stored record.
// The timeline is built from a stable sort on CreatedAt, so sorting the
// records the same way gives a positional match even when timestamps collide.
func timelineEntryFor(records []models.PaymentRecord, result feecore.Result, recordID uint) (feecore.TimelineEntry, bool) {
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return records[idx[a]].CreatedAt.Before(records[idx[b]].CreatedAt)
	})
	for pos, i := range idx {
		if records[i].ID == recordID {
			if pos < len(result.Timeline) {
				return result.Timeline[pos], true
			}
			break
		}
	}
	return feecore.TimelineEntry{}, false
}

// allowedEntryStatus reports whether a status may be set through the fee
// entry form. Overdue is reserved for the scheduler transition.
func allowedEntryStatus(status string) bool {
	switch status {
	case string(feecore.StatusPaid), string(feecore.StatusPending), string(feecore.StatusPartial):
		return true
	}
	return false
}

// checkEntryAmounts rejects a credited amount above the record's face amount.
// The ledger credits the paid amount when one is set, so the reconciled
// ceiling check on the face amount only holds if paid never exceeds it.
func checkEntryAmounts(amount, paidAmount int) error {
	if paidAmount < 0 {
		return fmt.Errorf("%w: paid amount %d", feecore.ErrInvalidAmount, paidAmount)
	}
	if paidAmount > amount {
		return fmt.Errorf("%w: paid amount %d exceeds amount %d", feecore.ErrInvalidAmount, paidAmount, amount)
	}
	return nil
}

// feeValidationStatus maps feecore validation errors to HTTP status codes
func feeValidationStatus(err error) int {
	switch {
	case errors.Is(err, feecore.ErrInvalidAmount), errors.Is(err, feecore.ErrUnknownFeeType):
		return fiber.StatusBadRequest
	case errors.Is(err, feecore.ErrFeeSettled), errors.Is(err, feecore.ErrExceedsRemaining):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}

func generateReceiptNo() string {
	return "RCP-" + strings.ToUpper(uuid.New().String()[:8])
}

// notifyPayment records an in-app notification for department admins and
// pushes the event to connected dashboard clients.
func (fc *FeeController) notifyPayment(student *models.Student, record *models.PaymentRecord, event string) {
	go func() {
		var admins []models.User
		if err := database.DB.Where("role IN ? AND status = ?", []string{"owner", "admin"}, "active").
			Find(&admins).Error; err != nil {
			logrus.WithError(err).Warn("Failed to load admins for payment notification")
			return
		}

		title := "Payment recorded"
		if event == "payment_settled" {
			title = "Payment settled"
		}
		for _, admin := range admins {
			notification := models.Notification{
				UserID:  admin.ID,
				Title:   title,
				Message: student.FirstName + " " + student.LastName + " (" + student.RollNo + "): " + record.FeeType + ", receipt " + record.ReceiptNo,
				Type:    "info",
			}
			if err := database.DB.Create(&notification).Error; err != nil {
				logrus.WithError(err).Warn("Failed to create payment notification")
				continue
			}
			if fc.hub != nil {
				fc.hub.BroadcastToUser(admin.ID, websocket.Message{
					Type: event,
					Data: fiber.Map{
						"notification": notification,
						"record_id":    record.ID,
						"student_id":   student.ID,
					},
				})
			}
		}
	}()
}
