package controllers

import (
	"github.com/markbates/goth"

	"github.com/nbc7/nlw-habits-server/backend/models"
)

func (ac *AuthController) UpsertUser(gothUser goth.User) (*models.User, error) {
	return ac.upsertUser(gothUser)
}
