package controllers

import (
	"feeadmin_go/database"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type EmployeeController struct{}

// GetEmployees returns all employees with pagination
func (ec *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var employees []models.Employee
	var total int64

	query := database.DB.Model(&models.Employee{})

	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if designation := c.Query("designation"); designation != "" {
		query = query.Where("designation = ?", designation)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("Department").
		Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch employees",
		})
	}

	return c.JSON(fiber.Map{
		"employees": employees,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetEmployee returns a specific employee by ID
func (ec *EmployeeController) GetEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := database.DB.Preload("Department").First(&employee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Employee not found",
		})
	}

	return c.JSON(fiber.Map{
		"employee": employee,
	})
}

// CreateEmployee creates a new employee record
func (ec *EmployeeController) CreateEmployee(c *fiber.Ctx) error {
	var employee models.Employee
	if err := c.BodyParser(&employee); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if employee.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "First name is required",
		})
	}

	if employee.Email != "" {
		var existing models.Employee
		if err := database.DB.Where("email = ?", employee.Email).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already exists",
			})
		}
	}

	if err := database.DB.Create(&employee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create employee",
		})
	}

	database.DB.Preload("Department").First(&employee, employee.ID)

	middleware.LogActivity(c, "CREATE", "employees", employee.ID, employee)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Employee created successfully",
		"employee": employee,
	})
}

// UpdateEmployee updates an existing employee record
func (ec *EmployeeController) UpdateEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := database.DB.First(&employee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Employee not found",
		})
	}

	var updateData models.Employee
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&employee).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update employee",
		})
	}

	database.DB.Preload("Department").First(&employee, employee.ID)

	middleware.LogActivity(c, "UPDATE", "employees", employee.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Employee updated successfully",
		"employee": employee,
	})
}

// DeleteEmployee deletes an employee record (soft delete)
func (ec *EmployeeController) DeleteEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := database.DB.First(&employee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Employee not found",
		})
	}

	if err := database.DB.Delete(&employee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete employee",
		})
	}

	middleware.LogActivity(c, "DELETE", "employees", employee.ID, employee)

	return c.JSON(fiber.Map{
		"message": "Employee deleted successfully",
	})
}
