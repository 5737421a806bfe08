package routes

import (
	"feeadmin_go/controllers"
	"feeadmin_go/middleware"
	"feeadmin_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	healthController := &controllers.HealthController{}
	studentController := &controllers.StudentController{}
	departmentController := &controllers.DepartmentController{}
	specialityController := &controllers.SpecialityController{}
	employeeController := &controllers.EmployeeController{}
	dashboardController := &controllers.DashboardController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	reportController := &controllers.ReportController{}
	feeController := controllers.NewFeeController(wsHub)
	wsController := controllers.NewWebSocketController(wsHub)

	// Health check (no authentication)
	app.Get("/health", healthController.GetHealth)

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/reset-password-token", authController.ResetPasswordWithToken)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// Password reset token generation (admin/owner only)
	passwordReset := protected.Group("/password-reset", middleware.RequireOwnerOrAdmin())
	passwordReset.Post("/generate-token", authController.GeneratePasswordResetToken)

	// User management routes
	users := protected.Group("/users", middleware.RequireOwnerOrAdmin())
	users.Get("/", userController.GetUsers)
	users.Get("/:id", userController.GetUser)
	users.Post("/", authController.Register)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Department routes. Seat counts are derived on every read.
	departments := protected.Group("/departments")
	departments.Get("/", departmentController.GetDepartments)
	departments.Get("/:id", departmentController.GetDepartment)
	departments.Get("/:id/seats", departmentController.GetDepartmentSeats)
	departments.Post("/", middleware.RequireOwnerOrAdmin(), departmentController.CreateDepartment)
	departments.Put("/:id", middleware.RequireOwnerOrAdmin(), departmentController.UpdateDepartment)
	departments.Delete("/:id", middleware.RequireOwnerOrAdmin(), departmentController.DeleteDepartment)

	// Speciality routes
	specialities := protected.Group("/specialities")
	specialities.Get("/", specialityController.GetSpecialities)
	specialities.Get("/:id", specialityController.GetSpeciality)
	specialities.Post("/", middleware.RequireOwnerOrAdmin(), specialityController.CreateSpeciality)
	specialities.Put("/:id", middleware.RequireOwnerOrAdmin(), specialityController.UpdateSpeciality)
	specialities.Delete("/:id", middleware.RequireOwnerOrAdmin(), specialityController.DeleteSpeciality)

	// Student routes
	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Get("/:id/fees", studentController.GetStudentFees)
	students.Get("/:id/timeline", feeController.GetStudentTimeline)
	students.Post("/", middleware.RequireOwnerOrAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireOwnerOrAdmin(), studentController.UpdateStudent)
	students.Patch("/:id/fee-structure", middleware.RequireOwnerOrAdmin(), studentController.UpdateFeeStructure)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)

	// Payment ledger routes. Collection requires at least accountant.
	fees := protected.Group("/fees")
	fees.Get("/", feeController.ListFees)
	fees.Get("/export", middleware.RequireAccountantOrAbove(), feeController.ExportFees)
	fees.Get("/:id", feeController.GetFee)
	fees.Get("/:id/receipt", feeController.GetReceipt)
	fees.Post("/", middleware.RequireAccountantOrAbove(), feeController.AddFee)
	fees.Patch("/:id/settle", middleware.RequireAccountantOrAbove(), feeController.SettleFee)

	// Employee routes
	employees := protected.Group("/employees")
	employees.Get("/", employeeController.GetEmployees)
	employees.Get("/:id", employeeController.GetEmployee)
	employees.Post("/", middleware.RequireOwnerOrAdmin(), employeeController.CreateEmployee)
	employees.Put("/:id", middleware.RequireOwnerOrAdmin(), employeeController.UpdateEmployee)
	employees.Delete("/:id", middleware.RequireOwnerOrAdmin(), employeeController.DeleteEmployee)

	// Dashboard
	protected.Get("/dashboard/summary", dashboardController.GetSummary)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/:id/read", notificationController.MarkNotificationRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllNotificationsRead)

	// Archived monthly reports (admin/owner only)
	reports := protected.Group("/reports", middleware.RequireOwnerOrAdmin())
	reports.Get("/", reportController.GetReports)
	reports.Get("/:id/download", reportController.GetReportDownloadURL)

	// Activity logs (admin/owner only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Post("/flush-cache", logController.FlushCachedLogs)

	// WebSocket stats
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireOwnerOrAdmin(), wsController.GetStats)

	// WebSocket connection endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.Handler())
}
