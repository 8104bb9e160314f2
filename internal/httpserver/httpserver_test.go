package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/config"
	"github.com/swiftkart/storefront/internal/jwtauth"
	"github.com/swiftkart/storefront/internal/models"
	"github.com/swiftkart/storefront/internal/repo"
	"github.com/swiftkart/storefront/internal/service"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Cart  *CartHTTP
	Order *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := &repo.GormRepo{DB: db}
	return &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Cart:  &CartHTTP{Svc: &service.CartService{Repo: store}},
		Order: &OrderHTTP{Svc: &service.OrderService{Repo: store}},
	}
}

// doJSONRequest builds an echo context carrying the given identity, the
// way the auth middleware would after verifying the access token.
func (env *testEnv) doJSONRequest(method, path string, body interface{}, id jwtauth.Identity) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("identity", id)
	return rec, c
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) Envelope {
	var resp Envelope
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (env *testEnv) seedProduct(p models.Product) models.Product {
	env.T.Helper()
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) seedAddress(userID uint) models.Address {
	env.T.Helper()
	addr := models.Address{
		UserID: userID, Name: "Buyer", Phone: "9999999999",
		Street: "42 MG Road", City: "Bengaluru", State: "Karnataka",
		Pincode: "560001", Country: "India",
	}
	require.NoError(env.T, env.DB.Create(&addr).Error)
	return addr
}

var (
	buyer      = jwtauth.Identity{UserID: 1, Role: "buyer"}
	otherBuyer = jwtauth.Identity{UserID: 2, Role: "buyer"}
	admin      = jwtauth.Identity{UserID: 9, Role: "admin"}
)

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
