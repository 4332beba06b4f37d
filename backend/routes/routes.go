package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/controllers"
	"github.com/nbc7/nlw-habits-server/backend/middleware"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, clock schedule.Clock, loc *time.Location) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Get("/api/auth/google", authController.Login)
	app.Get("/api/auth/google/callback", authController.Callback)
	app.Get("/api/auth/logout", authController.Logout)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	app.Get("/api/me", authMiddleware, authController.Me)

	// Habit routes
	habitsController := controllers.NewHabitsController(db, cfg, clock, loc)
	app.Get("/api/habits", authMiddleware, habitsController.GetUserHabits)
	app.Post("/api/habits", authMiddleware, habitsController.CreateHabit)

	// Day routes
	dayController := controllers.NewDayController(db, cfg, clock, loc)
	app.Get("/api/day", authMiddleware, dayController.GetDay)
	// Toggle не проверяет личность вызывающего: любой, кто знает id
	// привычки, может ее переключить
	app.Patch("/api/habits/:id/toggle", dayController.ToggleHabit)

	// Summary routes
	summaryController := controllers.NewSummaryController(db, cfg, loc)
	app.Get("/api/summary", authMiddleware, summaryController.GetSummary)
}
