package controllers

import (
	"strconv"

	"feeadmin_go/database"
	"feeadmin_go/middleware"
	"feeadmin_go/models"
	"feeadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct{}

// GetUsers returns all dashboard accounts with pagination
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	if err := query.Preload("Department").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns a specific user by ID
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := database.DB.Preload("Department").First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// UpdateUser updates role, department, status or contact details of a user
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var updateData struct {
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Role         string `json:"role"`
		DepartmentID uint   `json:"department_id"`
		Status       string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Role != "" && !utils.IsValidRole(updateData.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	// Only the owner can grant or revoke the owner role
	if updateData.Role == "owner" || user.Role == "owner" {
		current, err := middleware.GetCurrentUser(c)
		if err != nil || current.Role != "owner" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only the owner can change owner accounts",
			})
		}
	}

	updates := map[string]interface{}{}
	if updateData.Email != "" {
		updates["email"] = updateData.Email
	}
	if updateData.Phone != "" {
		updates["phone"] = updateData.Phone
	}
	if updateData.Role != "" {
		updates["role"] = updateData.Role
	}
	if updateData.DepartmentID != 0 {
		updates["department_id"] = updateData.DepartmentID
	}
	if updateData.Status != "" {
		updates["status"] = updateData.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update user",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser deletes a user account (soft delete)
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	current, err := middleware.GetCurrentUser(c)
	if err == nil && current.ID == uint(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete your own account",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.Role == "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Owner accounts cannot be deleted",
		})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, user)

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
