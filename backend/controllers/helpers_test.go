package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/models"
	"github.com/nbc7/nlw-habits-server/backend/routes"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time { return f.now }

func setupTestApp(t *testing.T, clock schedule.Clock) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateDB(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqlDB.Close())
	})

	cfg := &config.Config{
		JWTSecret:     "testsecret",
		SessionSecret: "testsecret",
		Timezone:      "UTC",
		FrontendURL:   "http://localhost:5173",
	}

	app := fiber.New()
	routes.SetupRoutes(app, gdb, cfg, clock, time.UTC)

	return app, gdb, cfg
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(user.ID, user.Email, cfg)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// decodeData распаковывает поле data из конверта {success, data}
func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	if envelope.Data == nil {
		// Пустой срез опускается конвертом; out остается нулевым
		return
	}
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
