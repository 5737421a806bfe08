package seeders

import (
	"log"
	"time"

	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedDepartments()
	SeedSpecialities()
	SeedUsers()
	SeedStudents()

	log.Println("Database seeding completed successfully!")
}

// SeedDepartments seeds the departments table
func SeedDepartments() {
	var count int64
	database.DB.Model(&models.Department{}).Count(&count)
	if count > 0 {
		log.Println("Departments already seeded, skipping...")
		return
	}

	departments := []models.Department{
		{
			BaseModel:  models.BaseModel{ID: 1},
			Name:       "Computer Science",
			Code:       "CS",
			Head:       "Dr. R. Sharma",
			Phone:      "0141-2550001",
			TotalSeats: 120,
			Active:     true,
		},
		{
			BaseModel:  models.BaseModel{ID: 2},
			Name:       "Electronics and Communication",
			Code:       "ECE",
			Head:       "Dr. S. Verma",
			Phone:      "0141-2550002",
			TotalSeats: 90,
			Active:     true,
		},
		{
			BaseModel:  models.BaseModel{ID: 3},
			Name:       "Mechanical Engineering",
			Code:       "ME",
			Head:       "Dr. A. Singh",
			Phone:      "0141-2550003",
			TotalSeats: 60,
			Active:     true,
		},
	}

	for _, department := range departments {
		if err := database.DB.Create(&department).Error; err != nil {
			log.Printf("Failed to seed department %s: %v", department.Code, err)
		}
	}

	log.Println("Departments seeded successfully")
}

// SeedSpecialities seeds the specialities table with their fee templates
func SeedSpecialities() {
	var count int64
	database.DB.Model(&models.Speciality{}).Count(&count)
	if count > 0 {
		log.Println("Specialities already seeded, skipping...")
		return
	}

	specialities := []models.Speciality{
		{
			BaseModel:        models.BaseModel{ID: 1},
			DepartmentID:     1,
			Name:             "B.Tech Computer Science",
			Code:             "CS-BTECH",
			DurationYears:    4,
			Active:           true,
			TuitionFee:       85000,
			HostelFee:        45000,
			SecurityFee:      10000,
			ACCharge:         8000,
			MiscellaneousFee: 5000,
		},
		{
			BaseModel:        models.BaseModel{ID: 2},
			DepartmentID:     1,
			Name:             "B.Tech Artificial Intelligence",
			Code:             "CS-AI",
			DurationYears:    4,
			Active:           true,
			TuitionFee:       95000,
			HostelFee:        45000,
			SecurityFee:      10000,
			ACCharge:         8000,
			MiscellaneousFee: 5000,
		},
		{
			BaseModel:        models.BaseModel{ID: 3},
			DepartmentID:     2,
			Name:             "B.Tech Electronics",
			Code:             "ECE-BTECH",
			DurationYears:    4,
			Active:           true,
			TuitionFee:       75000,
			HostelFee:        45000,
			SecurityFee:      10000,
			ACCharge:         0,
			MiscellaneousFee: 5000,
		},
		{
			BaseModel:        models.BaseModel{ID: 4},
			DepartmentID:     3,
			Name:             "B.Tech Mechanical",
			Code:             "ME-BTECH",
			DurationYears:    4,
			Active:           true,
			TuitionFee:       70000,
			HostelFee:        45000,
			SecurityFee:      10000,
			ACCharge:         0,
			MiscellaneousFee: 5000,
		},
	}

	for _, speciality := range specialities {
		if err := database.DB.Create(&speciality).Error; err != nil {
			log.Printf("Failed to seed speciality %s: %v", speciality.Code, err)
		}
	}

	log.Println("Specialities seeded successfully")
}

// SeedUsers seeds the dashboard accounts
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	defaultPassword, err := utils.HashPassword("changeme123")
	if err != nil {
		log.Printf("Failed to hash default password: %v", err)
		return
	}

	users := []models.User{
		{
			Username: "owner",
			Password: defaultPassword,
			Email:    "owner@campusfee.local",
			Role:     "owner",
			Status:   "active",
		},
		{
			Username:     "admin",
			Password:     defaultPassword,
			Email:        "admin@campusfee.local",
			Role:         "admin",
			DepartmentID: 1,
			Status:       "active",
		},
		{
			Username:     "accounts",
			Password:     defaultPassword,
			Email:        "accounts@campusfee.local",
			Role:         "accountant",
			DepartmentID: 1,
			Status:       "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedStudents seeds a handful of sample admissions for development
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	dob := time.Date(2006, 4, 12, 0, 0, 0, 0, time.UTC)
	students := []models.Student{
		{
			RollNo:           "CS2025-001",
			FirstName:        "Aarav",
			LastName:         "Gupta",
			FatherName:       "Rakesh Gupta",
			DateOfBirth:      &dob,
			Gender:           "male",
			Phone:            "9876500001",
			DepartmentID:     1,
			SpecialityID:     1,
			Session:          "2025-2029",
			HostelResident:   true,
			Status:           "enrolled",
			TuitionFee:       85000,
			HostelFee:        45000,
			SecurityFee:      10000,
			ACCharge:         8000,
			MiscellaneousFee: 5000,
		},
		{
			RollNo:           "ECE2025-001",
			FirstName:        "Priya",
			LastName:         "Mehta",
			FatherName:       "Suresh Mehta",
			Gender:           "female",
			Phone:            "9876500002",
			DepartmentID:     2,
			SpecialityID:     3,
			Session:          "2025-2029",
			Status:           "enrolled",
			TuitionFee:       75000,
			HostelFee:        0,
			SecurityFee:      10000,
			ACCharge:         0,
			MiscellaneousFee: 5000,
		},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Failed to seed student %s: %v", student.RollNo, err)
		}
	}

	log.Println("Students seeded successfully")
}
