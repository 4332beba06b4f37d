package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/models"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

type SummaryController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Loc *time.Location
}

func NewSummaryController(db *gorm.DB, cfg *config.Config, loc *time.Location) *SummaryController {
	return &SummaryController{DB: db, Cfg: cfg, Loc: loc}
}

// SummaryRow is one day with at least one completion for the user.
// Completed and Amount are exact counts; the ratio is left to the consumer.
type SummaryRow struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Amount    int       `json:"amount"`
}

// GetSummary godoc
// @Summary Get completion summary
// @Description Returns, per day with activity, the caller's completed and possible habit counts
// @Tags summary
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /summary [get]
func (sc *SummaryController) GetSummary(c *fiber.Ctx) error {
	email, err := utils.ExtractEmailFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := sc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return utils.Success(c, fiber.StatusOK, []SummaryRow{})
	}

	var habits []models.Habit
	if err := sc.DB.Preload("WeekDays").
		Where("user_id = ?", user.ID).
		Find(&habits).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch habits")
	}

	// Дни с хотя бы одной отметкой пользователя и число отметок за день;
	// amount считается в памяти тем же предикатом, что и getDayView
	var completions []struct {
		DayID     uuid.UUID `gorm:"column:day_id"`
		Date      time.Time `gorm:"column:date"`
		Completed int       `gorm:"column:completed"`
	}
	if err := sc.DB.Model(&models.DayHabit{}).
		Select("day_habits.day_id AS day_id, days.date AS date, COUNT(*) AS completed").
		Joins("JOIN days ON days.id = day_habits.day_id").
		Joins("JOIN habits ON habits.id = day_habits.habit_id").
		Where("habits.user_id = ?", user.ID).
		Group("day_habits.day_id, days.date").
		Order("days.date").
		Scan(&completions).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch completions")
	}

	rows := make([]SummaryRow, 0, len(completions))
	for _, completion := range completions {
		date := schedule.StartOfDay(completion.Date, sc.Loc)

		amount := 0
		for _, habit := range habits {
			if schedule.IsPossible(habit.CreatedAt, date, habit.WeekDayInts(), sc.Loc) {
				amount++
			}
		}

		rows = append(rows, SummaryRow{
			ID:        completion.DayID,
			Date:      date,
			Completed: completion.Completed,
			Amount:    amount,
		})
	}

	return utils.Success(c, fiber.StatusOK, rows)
}
