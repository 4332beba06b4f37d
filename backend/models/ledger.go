package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Day is created lazily by the first toggle for its date. A row exists iff
// at least one toggle has ever happened on that date.
type Day struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Date time.Time `gorm:"uniqueIndex;not null" json:"date"`
}

// DayHabit records that a habit was marked complete on a day. Created and
// deleted by the toggle operation, never updated.
type DayHabit struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DayID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_day_habits_day_habit;not null" json:"day_id"`
	HabitID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_day_habits_day_habit;not null" json:"habit_id"`
}

func (d *Day) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (dh *DayHabit) BeforeCreate(tx *gorm.DB) error {
	if dh.ID == uuid.Nil {
		dh.ID = uuid.New()
	}
	return nil
}
