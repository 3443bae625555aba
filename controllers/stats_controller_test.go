package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

func TestGetStatsLogsQueryFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	days, err := services.NewDayResolver("UTC")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	prev := utils.Logger
	utils.Logger = zap.New(core)
	t.Cleanup(func() { utils.Logger = prev })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	r := gin.New()
	r.GET("/api/stats", NewStatsController(db, days).GetStats)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_count":0`)

	failed := logs.FilterMessage("stats query failed").All()
	require.Len(t, failed, 3)
	var stats []string
	for _, entry := range failed {
		stats = append(stats, entry.ContextMap()["stat"].(string))
	}
	assert.ElementsMatch(t, []string{"user_count", "submitted_today", "water_today_ml"}, stats)
}
