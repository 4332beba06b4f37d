package controllers_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbc7/nlw-habits-server/backend/controllers"
	"github.com/nbc7/nlw-habits-server/backend/models"
)

func TestMe(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	app, db, cfg := setupTestApp(t, clock)

	alice := createTestUser(t, db, "alice@x.com")
	token := tokenFor(t, cfg, alice)

	resp := doRequest(t, app, "GET", "/api/me", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decodeData(t, resp, &profile)
	assert.Equal(t, "alice@x.com", profile.Email)
	assert.Equal(t, "Test User", profile.Name)
}

func TestMeUnauthorized(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	app, _, _ := setupTestApp(t, clock)

	resp := doRequest(t, app, "GET", "/api/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMeUnknownUser(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	app, _, cfg := setupTestApp(t, clock)

	token := tokenFor(t, cfg, &models.User{Email: "nobody@x.com"})

	resp := doRequest(t, app, "GET", "/api/me", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpsertUser(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	_, db, cfg := setupTestApp(t, clock)

	ac := controllers.NewAuthController(db, cfg)

	// Первый вход создает пользователя и вычисляет username из email
	user, err := ac.UpsertUser(goth.User{
		Email:     "alice@x.com",
		Name:      "Alice",
		AvatarURL: "https://example.com/alice.png",
	})
	require.NoError(t, err)
	require.NotNil(t, user.Username)
	assert.Equal(t, "alice", *user.Username)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "https://example.com/alice.png", user.AvatarURL)

	// Повторный вход обновляет профиль, не создавая дубликата
	again, err := ac.UpsertUser(goth.User{
		Email:     "alice@x.com",
		Name:      "Alice Updated",
		AvatarURL: "https://example.com/alice2.png",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "alice", *again.Username)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Alice Updated", stored.Name)
}

func TestUpsertUserUsernameCollision(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	_, db, cfg := setupTestApp(t, clock)

	ac := controllers.NewAuthController(db, cfg)

	first, err := ac.UpsertUser(goth.User{Email: "alice@x.com", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", *first.Username)

	// Та же локальная часть на другом домене получает суффикс
	second, err := ac.UpsertUser(goth.User{Email: "alice@y.com", Name: "Other Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", *second.Username)
}
