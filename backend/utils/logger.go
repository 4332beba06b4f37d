package utils

import (
	"log"
	"os"
)

// InitLogger инициализирует и возвращает логгер приложения
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[Habits] ", log.LstdFlags|log.LUTC)
}
