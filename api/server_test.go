package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/models"
)

type testEnv struct {
	router   *chi.Mux
	db       database.Database
	config   map[string]string
	sessions *sessionManager
}

func newTestEnv(t *testing.T, extra map[string]string) testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := map[string]string{
		"SESSION_SECRET": "test-secret",
	}
	for key, value := range extra {
		cfg[key] = value
	}

	db := database.New(gormDB)
	return testEnv{
		router:   newRouter(db, withConfig(cfg), withStartupTime(time.Now())),
		db:       db,
		config:   cfg,
		sessions: newSessionManager(cfg),
	}
}

func (e testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{
		GoogleSub: "sub-" + email,
		Email:     email,
	}
	if err := e.db.UserRepo().Add(user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// sessionCookie issues a signed cookie for the user, the same way the login
// callback would.
func (e testEnv) sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := e.sessions.issue(rec, user.ID); err != nil {
		t.Fatalf("issue session: %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
