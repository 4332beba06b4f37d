package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit belongs to a user and is scheduled on a fixed subset of weekdays.
// CreatedAt is truncated to the start of day in the reference timezone.
// UserID is nullable: a habit created for an unknown email has no owner.
type Habit struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	WeekDays  []HabitWeekDay `gorm:"constraint:OnDelete:CASCADE;" json:"week_days"`
}

// HabitWeekDay holds one scheduled weekday for a habit, Sunday=0 through
// Saturday=6. Unique per (habit_id, week_day); immutable once created.
type HabitWeekDay struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	HabitID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_habit_week_days_habit_day;not null" json:"-"`
	WeekDay int       `gorm:"uniqueIndex:idx_habit_week_days_habit_day;not null" json:"week_day"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (hwd *HabitWeekDay) BeforeCreate(tx *gorm.DB) error {
	if hwd.ID == uuid.Nil {
		hwd.ID = uuid.New()
	}
	return nil
}

// WeekDayInts returns the scheduled weekday indices of the habit.
func (h Habit) WeekDayInts() []int {
	days := make([]int, 0, len(h.WeekDays))
	for _, wd := range h.WeekDays {
		days = append(days, wd.WeekDay)
	}
	return days
}
