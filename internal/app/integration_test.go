package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/app/controller"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	"github.com/ikkim/stores-rest-api/internal/db"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/internal/router"
	"github.com/ikkim/stores-rest-api/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.PasswordHashCost = bcrypt.MinCost
}

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	// Setup database
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode, Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			AdminUserID:        2,
		},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"*"}},
		Store: config.StoreConfig{DeletePolicy: config.DeletePolicyCascade},
	}

	// Setup repositories
	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)

	// Setup services
	authService := service.NewAuthService(
		userRepo,
		repository.NewDBTokenBlocklist(testDB),
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.AdminUserID,
	)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewStoreController(service.NewStoreService(storeRepo, cfg.Store.DeletePolicy)),
		controller.NewItemController(service.NewItemService(itemRepo, storeRepo)),
		controller.NewTagController(service.NewTagService(tagRepo, itemRepo, storeRepo)),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	return &TestServer{
		Router:      r.Setup(),
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

func (ts *TestServer) registerAndLogin(t *testing.T, username string) (string, string) {
	code, _ := ts.request(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := ts.request(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestStoreCatalogJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	t.Log("Step 1: Register and login")
	access, refresh := ts.registerAndLogin(t, "alice")

	t.Log("Step 2: Create store")
	code, store := ts.request(t, http.MethodPost, "/store", access, map[string]string{"name": "S"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), store["id"])
	assert.Equal(t, "S", store["name"])
	assert.Equal(t, []interface{}{}, store["items"])

	code, body := ts.request(t, http.MethodPost, "/store", access, map[string]string{"name": "S"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "RESOURCE_CONFLICT", body["error"])

	t.Log("Step 3: Create item and tag")
	code, item := ts.request(t, http.MethodPost, "/item", access, map[string]interface{}{
		"name":     "Chair",
		"price":    15.99,
		"store_id": 1,
	})
	require.Equal(t, http.StatusCreated, code)
	itemID := int(item["id"].(float64))
	assert.Equal(t, []interface{}{}, item["tags"])

	code, tag := ts.request(t, http.MethodPost, "/store/1/tag", "", map[string]string{"name": "furniture"})
	require.Equal(t, http.StatusOK, code)
	tagID := int(tag["id"].(float64))

	code, _ = ts.request(t, http.MethodPost, "/store/1/tag", "", map[string]string{"name": "furniture"})
	assert.Equal(t, http.StatusBadRequest, code)

	t.Log("Step 4: Link tag to item")
	linkPath := fmt.Sprintf("/item/%d/tag/%d", itemID, tagID)
	code, linked := ts.request(t, http.MethodPost, linkPath, "", nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Len(t, linked["items"], 1)

	code, item = ts.request(t, http.MethodGet, fmt.Sprintf("/item/%d", itemID), access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, item["tags"], 1)

	t.Log("Step 5: Linked tag cannot be deleted")
	code, body = ts.request(t, http.MethodDelete, fmt.Sprintf("/tag/%d", tagID), "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "RESOURCE_CONFLICT", body["error"])

	code, body = ts.request(t, http.MethodDelete, linkPath, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Item removed from tag.", body["message"])

	code, body = ts.request(t, http.MethodDelete, fmt.Sprintf("/tag/%d", tagID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Tag deleted.", body["message"])

	t.Log("Step 6: Refreshed token is not fresh")
	code, body = ts.request(t, http.MethodPost, "/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, code)
	stale := body["access_token"].(string)
	_, hasRefresh := body["refresh_token"]
	assert.False(t, hasRefresh)

	code, body = ts.request(t, http.MethodPost, "/store", stale, map[string]string{"name": "T"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "The token is not fresh.", body["message"])

	code, _ = ts.request(t, http.MethodGet, "/store", stale, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = ts.request(t, http.MethodPost, "/refresh", access, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	t.Log("Step 7: Logout revokes the token")
	code, body = ts.request(t, http.MethodPost, "/logout", access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Successfully logged out.", body["message"])

	code, body = ts.request(t, http.MethodGet, "/store", access, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "The token has been revoked.", body["message"])

	code, body = ts.request(t, http.MethodPost, "/logout", access, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You have already logged out.", body["message"])
}

func TestAdminStoreDeletion(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	userAccess, _ := ts.registerAndLogin(t, "first")
	adminAccess, _ := ts.registerAndLogin(t, "second")

	code, _ := ts.request(t, http.MethodPost, "/store", userAccess, map[string]string{"name": "S"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = ts.request(t, http.MethodPost, "/item", userAccess, map[string]interface{}{
		"name":     "Chair",
		"price":    10,
		"store_id": 1,
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := ts.request(t, http.MethodDelete, "/store/1", userAccess, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Admin privilege required.", body["message"])

	code, body = ts.request(t, http.MethodDelete, "/store/1", adminAccess, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Store deleted.", body["message"])

	code, _ = ts.request(t, http.MethodGet, "/item/1", adminAccess, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNotFoundAndAuthErrors(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	access, _ := ts.registerAndLogin(t, "alice")

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
		wantErr  string
	}{
		{name: "Missing token", method: http.MethodGet, path: "/store", wantCode: http.StatusUnauthorized, wantErr: "AUTH_TOKEN_MISSING"},
		{name: "Garbage token", method: http.MethodGet, path: "/store", token: "abc", wantCode: http.StatusUnauthorized, wantErr: "AUTH_TOKEN_INVALID"},
		{name: "Unknown store", method: http.MethodGet, path: "/store/99", token: access, wantCode: http.StatusNotFound, wantErr: "RESOURCE_NOT_FOUND"},
		{name: "Non-numeric store", method: http.MethodGet, path: "/store/abc", token: access, wantCode: http.StatusNotFound, wantErr: "RESOURCE_NOT_FOUND"},
		{name: "Unknown item", method: http.MethodGet, path: "/item/5", token: access, wantCode: http.StatusNotFound, wantErr: "RESOURCE_NOT_FOUND"},
		{name: "Unknown tag", method: http.MethodGet, path: "/tag/5", wantCode: http.StatusNotFound, wantErr: "RESOURCE_NOT_FOUND"},
		{name: "Unknown user", method: http.MethodGet, path: "/user/42", wantCode: http.StatusNotFound, wantErr: "RESOURCE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ts.request(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}
