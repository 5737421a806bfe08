package controllers

import (
	"feeadmin_go/database"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type DepartmentController struct{}

// seatSummary recomputes seat occupancy from the students table. Seat counts
// are never cached on the department row; every read goes back to the source.
func seatSummary(departmentID uint, totalSeats int) (fiber.Map, error) {
	var enrolled int64
	err := database.DB.Model(&models.Student{}).
		Where("department_id = ? AND status = ?", departmentID, "enrolled").
		Count(&enrolled).Error
	if err != nil {
		return nil, err
	}

	available := totalSeats - int(enrolled)
	if available < 0 {
		available = 0
	}
	return fiber.Map{
		"total_seats": totalSeats,
		"occupied":    enrolled,
		"available":   available,
	}, nil
}

// GetDepartments returns all departments
func (dc *DepartmentController) GetDepartments(c *fiber.Ctx) error {
	var departments []models.Department

	query := database.DB.Model(&models.Department{})
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Find(&departments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch departments",
		})
	}

	return c.JSON(fiber.Map{
		"departments": departments,
		"total":       len(departments),
	})
}

// GetDepartment returns a specific department with its seat summary
func (dc *DepartmentController) GetDepartment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if err := database.DB.Preload("Specialities").First(&department, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	seats, err := seatSummary(department.ID, department.TotalSeats)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute seat summary",
		})
	}

	return c.JSON(fiber.Map{
		"department": department,
		"seats":      seats,
	})
}

// GetDepartmentSeats returns seat occupancy for one department
func (dc *DepartmentController) GetDepartmentSeats(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if err := database.DB.First(&department, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	seats, err := seatSummary(department.ID, department.TotalSeats)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute seat summary",
		})
	}

	return c.JSON(fiber.Map{
		"department_id": department.ID,
		"seats":         seats,
	})
}

// CreateDepartment creates a new department
func (dc *DepartmentController) CreateDepartment(c *fiber.Ctx) error {
	var department models.Department
	if err := c.BodyParser(&department); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if department.Name == "" || department.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and code are required",
		})
	}
	if department.TotalSeats < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Total seats must be non-negative",
		})
	}

	var existing models.Department
	if err := database.DB.Where("code = ?", department.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Department code already exists",
		})
	}

	if err := database.DB.Create(&department).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create department",
		})
	}

	middleware.LogActivity(c, "CREATE", "departments", department.ID, department)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Department created successfully",
		"department": department,
	})
}

// UpdateDepartment updates an existing department
func (dc *DepartmentController) UpdateDepartment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if err := database.DB.First(&department, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	var updateData models.Department
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.TotalSeats < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Total seats must be non-negative",
		})
	}

	if err := database.DB.Model(&department).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update department",
		})
	}

	middleware.LogActivity(c, "UPDATE", "departments", department.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "Department updated successfully",
		"department": department,
	})
}

// DeleteDepartment deletes a department (soft delete)
func (dc *DepartmentController) DeleteDepartment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if err := database.DB.First(&department, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	// Departments with enrolled students cannot be removed
	var enrolled int64
	database.DB.Model(&models.Student{}).
		Where("department_id = ? AND status = ?", department.ID, "enrolled").
		Count(&enrolled)
	if enrolled > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Department still has enrolled students",
		})
	}

	if err := database.DB.Delete(&department).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete department",
		})
	}

	middleware.LogActivity(c, "DELETE", "departments", department.ID, department)

	return c.JSON(fiber.Map{
		"message": "Department deleted successfully",
	})
}
