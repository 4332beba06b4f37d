package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/models"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

type HabitsController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Clock schedule.Clock
	Loc   *time.Location
}

func NewHabitsController(db *gorm.DB, cfg *config.Config, clock schedule.Clock, loc *time.Location) *HabitsController {
	return &HabitsController{DB: db, Cfg: cfg, Clock: clock, Loc: loc}
}

type CreateHabitRequest struct {
	Title    string `json:"title"`
	WeekDays []int  `json:"weekDays"`
}

// CreateHabit godoc
// @Summary Create a habit
// @Description Creates a habit scheduled on the given weekdays, stamped with today's date
// @Tags habits
// @Accept json
// @Produce json
// @Param input body CreateHabitRequest true "Habit data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [post]
func (hc *HabitsController) CreateHabit(c *fiber.Ctx) error {
	email, err := utils.ExtractEmailFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CreateHabitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Валидация до обращения к базе
	if strings.TrimSpace(input.Title) == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if !schedule.ValidWeekDays(input.WeekDays) {
		return utils.BadRequest(c, "weekDays must be unique integers between 0 and 6")
	}

	// Неизвестный email не ошибка: привычка создается без владельца
	var ownerID *uuid.UUID
	var user models.User
	if err := hc.DB.Where("email = ?", email).First(&user).Error; err == nil {
		ownerID = &user.ID
	}

	habit := models.Habit{
		Title:     input.Title,
		CreatedAt: schedule.StartOfDay(hc.Clock.Now(), hc.Loc),
		UserID:    ownerID,
	}
	for _, d := range input.WeekDays {
		habit.WeekDays = append(habit.WeekDays, models.HabitWeekDay{WeekDay: d})
	}

	if err := hc.DB.Create(&habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not create habit")
	}

	return utils.Created(c, fiber.Map{
		"id":         habit.ID,
		"title":      habit.Title,
		"created_at": habit.CreatedAt,
		"week_days":  input.WeekDays,
	})
}

// GetUserHabits godoc
// @Summary List habits
// @Description Returns all of the caller's habits with their weekdays
// @Tags habits
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [get]
func (hc *HabitsController) GetUserHabits(c *fiber.Ctx) error {
	email, err := utils.ExtractEmailFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Нет пользователя — нет привычек
	var user models.User
	if err := hc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return utils.Success(c, fiber.StatusOK, []models.Habit{})
	}

	var habits []models.Habit
	if err := hc.DB.Preload("WeekDays").
		Where("user_id = ?", user.ID).
		Order("created_at").
		Find(&habits).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch habits")
	}

	return utils.Success(c, fiber.StatusOK, habits)
}
