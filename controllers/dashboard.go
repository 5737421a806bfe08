package controllers

import (
	"sort"

	"feeadmin_go/database"
	"feeadmin_go/feecore"
	"feeadmin_go/models"
	"feeadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct{}

type departmentOutstanding struct {
	DepartmentID uint   `json:"department_id"`
	Name         string `json:"name"`
	Students     int    `json:"students"`
	Owed         int    `json:"owed"`
	Paid         int    `json:"paid"`
	Remaining    int    `json:"remaining"`
}

// GetSummary GET /api/dashboard/summary
// The whole-school position is the sum of per-student reconciliations, so the
// lump-sum and fallback rules apply here exactly as they do on a single
// student's screen.
func (dc *DashboardController) GetSummary(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.DB.Preload("Department").
		Where("status = ?", "enrolled").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load students",
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.
		Joins("JOIN students ON students.id = payment_records.student_id").
		Where("students.status = ?", "enrolled").
		Order("payment_records.created_at ASC, payment_records.id ASC").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payment records",
		})
	}

	byStudent := make(map[uint][]models.PaymentRecord, len(students))
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	perDept := map[uint]*departmentOutstanding{}
	total := feecore.Balance{}
	fullyPaid := 0
	withDues := 0

	for _, s := range students {
		result := feecore.Reconcile(utils.ToFeecoreStructure(s), utils.ToFeecorePayments(byStudent[s.ID]))

		d, ok := perDept[s.DepartmentID]
		if !ok {
			d = &departmentOutstanding{
				DepartmentID: s.DepartmentID,
				Name:         s.Department.Name,
			}
			perDept[s.DepartmentID] = d
		}
		d.Students++
		d.Owed += result.Aggregate.Owed
		d.Paid += result.Aggregate.Paid
		d.Remaining += result.Aggregate.Remaining

		total.Owed += result.Aggregate.Owed
		total.Paid += result.Aggregate.Paid
		total.Remaining += result.Aggregate.Remaining

		if result.Aggregate.FullyPaid() {
			fullyPaid++
		} else {
			withDues++
		}
	}

	departments := make([]departmentOutstanding, 0, len(perDept))
	for _, d := range perDept {
		departments = append(departments, *d)
	}
	sort.Slice(departments, func(i, j int) bool {
		return departments[i].DepartmentID < departments[j].DepartmentID
	})

	var overdueCount int64
	database.DB.Model(&models.PaymentRecord{}).Where("status = ?", "overdue").Count(&overdueCount)

	return c.JSON(fiber.Map{
		"total":               total,
		"departments":         departments,
		"students_total":      len(students),
		"students_fully_paid": fullyPaid,
		"students_with_dues":  withDues,
		"overdue_records":     overdueCount,
	})
}
