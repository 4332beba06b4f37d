package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/models"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

type DayController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Clock schedule.Clock
	Loc   *time.Location
}

func NewDayController(db *gorm.DB, cfg *config.Config, clock schedule.Clock, loc *time.Location) *DayController {
	return &DayController{DB: db, Cfg: cfg, Clock: clock, Loc: loc}
}

// GetDay godoc
// @Summary Get a day's view
// @Description Returns the caller's possible and completed habits for a date
// @Tags day
// @Produce json
// @Param date query string true "Target date (YYYY-MM-DD or RFC 3339)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /day [get]
func (dc *DayController) GetDay(c *fiber.Ctx) error {
	email, err := utils.ExtractEmailFromToken(c, dc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dateParam := c.Query("date")
	if dateParam == "" {
		return utils.BadRequest(c, "date query parameter is required")
	}
	parsed, err := time.ParseInLocation("2006-01-02", dateParam, dc.Loc)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, dateParam)
		if err != nil {
			return utils.BadRequest(c, "date must be YYYY-MM-DD or RFC 3339")
		}
	}

	date := schedule.StartOfDay(parsed, dc.Loc)
	weekDay := schedule.WeekDay(date, dc.Loc)

	// Несуществующий пользователь дает обычный пустой результат: привычки
	// фильтруются по нулевому owner id
	var ownerID uuid.UUID
	var user models.User
	if err := dc.DB.Where("email = ?", email).First(&user).Error; err == nil {
		ownerID = user.ID
	}

	possible := []models.Habit{}
	if err := dc.DB.Preload("WeekDays").
		Joins("JOIN habit_week_days ON habit_week_days.habit_id = habits.id").
		Where("habits.user_id = ? AND habits.created_at <= ? AND habit_week_days.week_day = ?",
			ownerID, date, weekDay).
		Find(&possible).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch habits")
	}

	// Фильтр по владельцу накладывается прямо в join с леджером
	completed := []uuid.UUID{}
	if err := dc.DB.Model(&models.DayHabit{}).
		Joins("JOIN days ON days.id = day_habits.day_id").
		Joins("JOIN habits ON habits.id = day_habits.habit_id").
		Where("days.date = ? AND habits.user_id = ?", date, ownerID).
		Pluck("day_habits.habit_id", &completed).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch completions")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"possibleHabits":  possible,
		"completedHabits": completed,
	})
}

// ToggleHabit godoc
// @Summary Toggle a habit's completion for today
// @Description Marks the habit complete for today, or incomplete if it already was
// @Tags day
// @Produce json
// @Param id path string true "Habit ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /habits/{id}/toggle [patch]
func (dc *DayController) ToggleHabit(c *fiber.Ctx) error {
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "habit id must be a valid UUID")
	}

	today := schedule.StartOfDay(dc.Clock.Now(), dc.Loc)

	// Поиск-или-создание дня и переключение отметки в одной транзакции,
	// чтобы сбой между шагами не оставил пропущенный toggle
	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		day, err := findOrCreateDay(tx, today)
		if err != nil {
			return err
		}

		var dayHabit models.DayHabit
		err = tx.Where("day_id = ? AND habit_id = ?", day.ID, habitID).First(&dayHabit).Error
		switch {
		case err == nil:
			return tx.Delete(&dayHabit).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Проигравший одновременного двойного toggle просто не
			// вставляет дубликат
			dh := models.DayHabit{DayID: day.ID, HabitID: habitID}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dh).Error
		default:
			return err
		}
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not toggle habit")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// findOrCreateDay опирается на уникальный индекс по date: при конфликте
// строку вставил конкурент, поэтому всегда перечитываем ее после вставки
func findOrCreateDay(tx *gorm.DB, date time.Time) (*models.Day, error) {
	var day models.Day
	err := tx.Where("date = ?", date).First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Day{Date: date}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("date = ?", date).First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}
