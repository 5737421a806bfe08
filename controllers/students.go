package controllers

import (
	"feeadmin_go/database"
	"feeadmin_go/feecore"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"feeadmin_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StudentController struct{}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if specialityID := c.Query("speciality_id"); specialityID != "" {
		query = query.Where("speciality_id = ?", specialityID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if session := c.Query("session"); session != "" {
		query = query.Where("session = ?", session)
	}
	if search := utils.SanitizeString(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("roll_no LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	// Get total count
	query.Count(&total)

	if err := query.Preload("Department").Preload("Speciality").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("Department").Preload("Speciality").
		First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent admits a new student. The fee structure is copied from the
// speciality template unless explicit amounts are supplied, and the admission
// is rejected when the department has no seats left.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if student.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "First name is required",
		})
	}
	if student.DepartmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Department ID is required",
		})
	}
	if student.TuitionFee < 0 || student.HostelFee < 0 || student.SecurityFee < 0 ||
		student.ACCharge < 0 || student.MiscellaneousFee < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fee amounts must be non-negative",
		})
	}

	var department models.Department
	if err := database.DB.First(&department, student.DepartmentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	// Check roll number uniqueness up front for a friendlier error
	if student.RollNo != "" {
		var existing models.Student
		if err := database.DB.Where("roll_no = ?", student.RollNo).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Roll number already exists",
			})
		}
	}

	// Apply the speciality fee template when no explicit structure was given
	if student.SpecialityID != 0 && student.TotalFee() == 0 {
		var speciality models.Speciality
		if err := database.DB.First(&speciality, student.SpecialityID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Speciality not found",
			})
		}
		if speciality.DepartmentID != student.DepartmentID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Speciality does not belong to the selected department",
			})
		}
		student.TuitionFee = speciality.TuitionFee
		student.HostelFee = speciality.HostelFee
		student.SecurityFee = speciality.SecurityFee
		student.ACCharge = speciality.ACCharge
		student.MiscellaneousFee = speciality.MiscellaneousFee
	}

	if student.Status == "" {
		student.Status = "enrolled"
	}

	// Seat check and insert inside one transaction; the count is re-read here
	// so concurrent admissions cannot both pass a stale snapshot.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var enrolled int64
		if err := tx.Model(&models.Student{}).
			Where("department_id = ? AND status = ?", student.DepartmentID, "enrolled").
			Count(&enrolled).Error; err != nil {
			return err
		}
		if department.TotalSeats > 0 && enrolled >= int64(department.TotalSeats) {
			return fiber.NewError(fiber.StatusConflict, "No seats available in this department")
		}
		return tx.Create(&student).Error
	})
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	database.DB.Preload("Department").Preload("Speciality").First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates a student's general information. The fee structure is
// deliberately excluded here; it changes only through UpdateFeeStructure.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
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

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Keep the fixed fee structure out of the general update path
	updateData.TuitionFee = student.TuitionFee
	updateData.HostelFee = student.HostelFee
	updateData.SecurityFee = student.SecurityFee
	updateData.ACCharge = student.ACCharge
	updateData.MiscellaneousFee = student.MiscellaneousFee

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	database.DB.Preload("Department").Preload("Speciality").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// FeeStructureRequest is the explicit fee structure edit payload
type FeeStructureRequest struct {
	TuitionFee       *int `json:"tuition_fee"`
	HostelFee        *int `json:"hostel_fee"`
	SecurityFee      *int `json:"security_fee"`
	ACCharge         *int `json:"ac_charge"`
	MiscellaneousFee *int `json:"miscellaneous_fee"`
}

// UpdateFeeStructure is the only write path for a student's fee structure.
// A component cannot drop below what has already been collected against it.
func (sc *StudentController) UpdateFeeStructure(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("Payments").First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var req FeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	next := utils.ToFeecoreStructure(student)
	if req.TuitionFee != nil {
		next.Tuition = *req.TuitionFee
	}
	if req.HostelFee != nil {
		next.Hostel = *req.HostelFee
	}
	if req.SecurityFee != nil {
		next.Security = *req.SecurityFee
	}
	if req.ACCharge != nil {
		next.AC = *req.ACCharge
	}
	if req.MiscellaneousFee != nil {
		next.Miscellaneous = *req.MiscellaneousFee
	}

	if next.Tuition < 0 || next.Hostel < 0 || next.Security < 0 || next.AC < 0 || next.Miscellaneous < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fee amounts must be non-negative",
		})
	}

	collected := feecore.PaidByType(utils.ToFeecorePayments(student.Payments))
	owed, _ := feecore.Resolve(next)
	for _, ft := range feecore.ConcreteTypes() {
		if owed[ft] < collected[ft] {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":    "Fee component cannot drop below the amount already collected",
				"fee_type": string(ft),
				"paid":     collected[ft],
			})
		}
	}

	updates := map[string]interface{}{
		"tuition_fee":       next.Tuition,
		"hostel_fee":        next.Hostel,
		"security_fee":      next.Security,
		"ac_charge":         next.AC,
		"miscellaneous_fee": next.Miscellaneous,
	}
	if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update fee structure",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updates)

	database.DB.First(&student, student.ID)
	return c.JSON(fiber.Map{
		"message": "Fee structure updated successfully",
		"student": student,
	})
}

// DeleteStudent deletes a student record (soft delete)
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
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

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, student)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}

// GetStudentFees returns the reconciled fee ledger for a student: per-type
// balances, the aggregate position, the receipt timeline and the raw records.
func (sc *StudentController) GetStudentFees(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("Department").First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var records []models.PaymentRecord
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("created_at, id").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payment records",
		})
	}

	result := feecore.Reconcile(utils.ToFeecoreStructure(student), utils.ToFeecorePayments(records))

	return c.JSON(fiber.Map{
		"student": student,
		"structure": fiber.Map{
			"tuition_fee":       student.TuitionFee,
			"hostel_fee":        student.HostelFee,
			"security_fee":      student.SecurityFee,
			"ac_charge":         student.ACCharge,
			"miscellaneous_fee": student.MiscellaneousFee,
			"total_fee":         student.TotalFee(),
		},
		"per_type":  result.PerType,
		"aggregate": result.Aggregate,
		"timeline":  result.Timeline,
		"records":   records,
	})
}
