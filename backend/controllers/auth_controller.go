package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"gorm.io/gorm"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/models"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	initProviders(cfg)
	return &AuthController{DB: db, Cfg: cfg}
}

// initProviders настраивает goth для входа через Google. Gothic использует
// собственный store на gorilla/sessions, поэтому задаем его явно.
func initProviders(cfg *config.Config) {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	if cfg.GoogleClientID == "" {
		// Без креденшалов вход через Google недоступен
		return
	}

	goth.UseProviders(
		google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleCallbackURL,
			"email",
			"profile",
		),
	)
}

// gothic требует query-параметр "provider"
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", "google")
	r.URL.RawQuery = q.Encode()
	return r
}

// Login godoc
// @Summary Begin Google OAuth flow
// @Description Redirects the caller to Google's consent screen
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gothic.BeginAuthHandler(w, withProvider(r))
	})(c)
}

// Callback godoc
// @Summary Complete Google OAuth flow
// @Description Upserts the user, issues a JWT cookie and redirects to the frontend
// @Tags auth
// @Success 302
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/google/callback [get]
func (ac *AuthController) Callback(c *fiber.Ctx) error {
	var gothUser goth.User
	var authErr error
	if err := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gothUser, authErr = gothic.CompleteUserAuth(w, withProvider(r))
	})(c); err != nil {
		return err
	}
	if authErr != nil {
		return utils.Unauthorized(c, "Authentication failed")
	}

	user, err := ac.upsertUser(gothUser)
	if err != nil {
		return utils.InternalServerError(c, "Could not save user")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Email, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(time.Hour * 72),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(ac.Cfg.FrontendURL, fiber.StatusFound)
}

// Logout godoc
// @Summary Log out
// @Description Clears the JWT cookie
// @Tags auth
// @Success 302
// @Router /auth/logout [get]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(ac.Cfg.FrontendURL, fiber.StatusFound)
}

// Me godoc
// @Summary Get authenticated user
// @Description Returns the caller's profile
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	email, err := utils.ExtractEmailFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"name":      user.Name,
		"avatarUrl": user.AvatarURL,
	})
}

// upsertUser создает пользователя при первом входе и обновляет профиль при
// последующих; username вычисляется из email, если он еще не задан
func (ac *AuthController) upsertUser(gothUser goth.User) (*models.User, error) {
	var user models.User
	err := ac.DB.Where("email = ?", gothUser.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email:     gothUser.Email,
			Name:      gothUser.Name,
			AvatarURL: gothUser.AvatarURL,
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := ac.DB.Model(&user).Updates(map[string]interface{}{
			"name":       gothUser.Name,
			"avatar_url": gothUser.AvatarURL,
		}).Error; err != nil {
			return nil, err
		}
	}

	if user.Username == nil {
		username := ac.availableUsername(gothUser.Email)
		if err := ac.DB.Model(&user).Update("username", username).Error; err != nil {
			return nil, err
		}
		user.Username = &username
	}

	return &user, nil
}

// availableUsername подбирает свободное имя, добавляя числовой суффикс
func (ac *AuthController) availableUsername(email string) string {
	base := utils.UsernameFromEmail(email)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		ac.DB.Model(&models.User{}).Where("username = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
