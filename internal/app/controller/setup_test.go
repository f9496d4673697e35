package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	"github.com/ikkim/stores-rest-api/internal/db"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	util.PasswordHashCost = bcrypt.MinCost
}

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	authService service.AuthService
}

func setupControllerTest(t *testing.T, deletePolicy string) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		repository.NewDBTokenBlocklist(testDB),
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
		2,
	)
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyCascade
	}

	authCtrl := NewAuthController(authService)
	storeCtrl := NewStoreController(service.NewStoreService(storeRepo, deletePolicy))
	itemCtrl := NewItemController(service.NewItemService(itemRepo, storeRepo))
	tagCtrl := NewTagController(service.NewTagService(tagRepo, itemRepo, storeRepo))
	auth := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.POST("/register", authCtrl.Register)
	router.POST("/login", authCtrl.Login)
	router.POST("/logout", auth.AuthenticateLogout(), authCtrl.Logout)
	router.POST("/refresh", auth.RequireRefresh(), authCtrl.Refresh)
	router.GET("/user/:id", authCtrl.GetUser)
	router.DELETE("/user/:id", authCtrl.DeleteUser)

	router.GET("/store", auth.Authenticate(), storeCtrl.ListStores)
	router.POST("/store", auth.RequireFresh(), storeCtrl.CreateStore)
	router.GET("/store/:id", auth.Authenticate(), storeCtrl.GetStore)
	router.DELETE("/store/:id", auth.RequireAdmin(), storeCtrl.DeleteStore)
	router.GET("/store/:id/tag", tagCtrl.ListTagsInStore)
	router.POST("/store/:id/tag", tagCtrl.CreateTagInStore)

	router.GET("/item", auth.Authenticate(), itemCtrl.ListItems)
	router.POST("/item", auth.Authenticate(), itemCtrl.CreateItem)
	router.GET("/item/:id", auth.Authenticate(), itemCtrl.GetItem)
	router.PUT("/item/:id", auth.Authenticate(), itemCtrl.PutItem)
	router.DELETE("/item/:id", auth.Authenticate(), itemCtrl.DeleteItem)
	router.POST("/item/:id/tag/:tag_id", tagCtrl.LinkTag)
	router.DELETE("/item/:id/tag/:tag_id", tagCtrl.UnlinkTag)

	router.GET("/tag/:id", tagCtrl.GetTag)
	router.DELETE("/tag/:id", tagCtrl.DeleteTag)

	return &testEnv{router: router, db: testDB, authService: authService}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// adminToken registers users until id 2 exists and returns a fresh admin
// access token.
func (e *testEnv) adminToken(t *testing.T) string {
	_, err := e.authService.Register("first", "pw")
	require.NoError(t, err)
	_, err = e.authService.Register("admin", "pw")
	require.NoError(t, err)
	tokens, err := e.authService.Login("admin", "pw")
	require.NoError(t, err)
	return tokens.AccessToken
}

func (e *testEnv) userToken(t *testing.T) string {
	_, err := e.authService.Register("user", "pw")
	require.NoError(t, err)
	tokens, err := e.authService.Login("user", "pw")
	require.NoError(t, err)
	return tokens.AccessToken
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) map[string]interface{} {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, code, body["error"])
	return body
}
