package controllers

import (
	"feeadmin_go/database"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type SpecialityController struct{}

// GetSpecialities returns all specialities, optionally filtered by department
func (spc *SpecialityController) GetSpecialities(c *fiber.Ctx) error {
	var specialities []models.Speciality

	query := database.DB.Model(&models.Speciality{}).Preload("Department")
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Find(&specialities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch specialities",
		})
	}

	return c.JSON(fiber.Map{
		"specialities": specialities,
		"total":        len(specialities),
	})
}

// GetSpeciality returns a specific speciality by ID
func (spc *SpecialityController) GetSpeciality(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid speciality ID",
		})
	}

	var speciality models.Speciality
	if err := database.DB.Preload("Department").First(&speciality, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Speciality not found",
		})
	}

	return c.JSON(fiber.Map{
		"speciality": speciality,
	})
}

// CreateSpeciality creates a new speciality with its fee template
func (spc *SpecialityController) CreateSpeciality(c *fiber.Ctx) error {
	var speciality models.Speciality
	if err := c.BodyParser(&speciality); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if speciality.Name == "" || speciality.DepartmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and department ID are required",
		})
	}
	if speciality.TuitionFee < 0 || speciality.HostelFee < 0 || speciality.SecurityFee < 0 ||
		speciality.ACCharge < 0 || speciality.MiscellaneousFee < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fee amounts must be non-negative",
		})
	}

	var department models.Department
	if err := database.DB.First(&department, speciality.DepartmentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	if err := database.DB.Create(&speciality).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create speciality",
		})
	}

	middleware.LogActivity(c, "CREATE", "specialities", speciality.ID, speciality)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Speciality created successfully",
		"speciality": speciality,
	})
}

// UpdateSpeciality updates an existing speciality. Template changes affect
// future admissions only; fee structures already copied to students stay put.
func (spc *SpecialityController) UpdateSpeciality(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid speciality ID",
		})
	}

	var speciality models.Speciality
	if err := database.DB.First(&speciality, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Speciality not found",
		})
	}

	var updateData models.Speciality
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.TuitionFee < 0 || updateData.HostelFee < 0 || updateData.SecurityFee < 0 ||
		updateData.ACCharge < 0 || updateData.MiscellaneousFee < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fee amounts must be non-negative",
		})
	}

	if err := database.DB.Model(&speciality).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update speciality",
		})
	}

	middleware.LogActivity(c, "UPDATE", "specialities", speciality.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "Speciality updated successfully",
		"speciality": speciality,
	})
}

// DeleteSpeciality deletes a speciality (soft delete)
func (spc *SpecialityController) DeleteSpeciality(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid speciality ID",
		})
	}

	var speciality models.Speciality
	if err := database.DB.First(&speciality, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Speciality not found",
		})
	}

	if err := database.DB.Delete(&speciality).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete speciality",
		})
	}

	middleware.LogActivity(c, "DELETE", "specialities", speciality.ID, speciality)

	return c.JSON(fiber.Map{
		"message": "Speciality deleted successfully",
	})
}
