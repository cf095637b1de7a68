package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minishop/backend/internal/es"
	"github.com/minishop/backend/internal/hash"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/repo"
	"github.com/minishop/backend/internal/service"
	"github.com/minishop/backend/internal/token"
)

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))

	store := repo.New(db)
	tokens := token.NewService([]byte("test-jwt-secret"))

	deps := Deps{
		AuthHandler: &AuthHandler{
			Svc: &service.AuthService{Repo: store, Tokens: tokens},
		},
		ProductHandler: &ProductHandler{
			Svc:     &service.CatalogService{Repo: store},
			Indexer: &es.Indexer{Index: es.ProductIndex, Log: slog.Default()},
		},
		OrderHandler: &OrderHandler{
			Svc: &service.OrderService{Repo: store},
		},
		SearchHandler: &SearchHandler{Index: es.ProductIndex},
		Tokens:        tokens,
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	Register(e, &deps)

	return &testEnv{E: e, Repo: store, Tokens: tokens}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, env.Repo.CreateUser(context.Background(), &user))

	tok, err := env.Tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)
	return user, tok
}

func (env *testEnv) seedProduct(t *testing.T, name string, price float64) models.Product {
	t.Helper()

	prod := models.Product{Name: name, Price: price, Stock: 5, Category: "misc"}
	require.NoError(t, env.Repo.CreateProduct(context.Background(), &prod))
	return prod
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

func requireMessage(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()

	require.Equal(t, code, rec.Code, "body: %s", rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, message, body["message"])
}
