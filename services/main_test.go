package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/models"
)

const testTimeout = 5 * time.Second

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db          *gorm.DB
	users       *UserStore
	logs        *DailyLogStore
	engine      *Engine
	leaderboard *Leaderboard
	community   *Community
}

func newFixture(t *testing.T, cache Cache) *fixture {
	t.Helper()
	db := newTestDB(t)
	users := NewUserStore(db, testTimeout)
	logs := NewDailyLogStore(db, testTimeout)
	return &fixture{
		db:          db,
		users:       users,
		logs:        logs,
		engine:      NewEngine(db, users, logs, cache, testTimeout),
		leaderboard: NewLeaderboard(db, cache, 30*time.Second, 50, testTimeout),
		community:   NewCommunity(db, testTimeout),
	}
}

func (f *fixture) mustUser(t *testing.T, name string) *models.User {
	t.Helper()
	user, _, err := f.users.GetOrCreateByName(context.Background(), name)
	require.NoError(t, err)
	return user
}

func (f *fixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	user, err := f.users.Get(context.Background(), id)
	require.NoError(t, err)
	return user
}
