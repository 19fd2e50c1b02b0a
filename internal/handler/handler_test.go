package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"easystock-service/internal/handler"
	"easystock-service/internal/middleware"
	"easystock-service/internal/model"
	"easystock-service/internal/policy"
	"easystock-service/internal/repository"
	"easystock-service/pkg/config"
	"easystock-service/pkg/jwtutil"
)

func uintPtr(v uint) *uint {
	return &v
}

func hash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// newTestServer builds the router over an in-memory database seeded with two
// companies, two shops and one user per role.
func newTestServer(t *testing.T) (*echo.Echo, *repository.Repository) {
	t.Helper()

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Company{}, &model.License{}, &model.Package{},
		&model.Shop{}, &model.ShopType{},
		&model.User{}, &model.UserLevel{},
		&model.ProductCategory{}, &model.Product{}, &model.Stock{},
		&model.Customer{}, &model.Bill{}, &model.Payment{}, &model.PaymentMode{},
		&model.Expense{}, &model.Cashbox{},
	))

	repo := repository.New(db)
	seed(t, repo)

	engine := policy.NewEngine(db)

	authHandler := handler.NewAuthHandler(repo)
	companyHandler := handler.NewCompanyHandler(repo)
	packageHandler := handler.NewPackageHandler(repo)
	shopHandler := handler.NewShopHandler(repo)
	userHandler := handler.NewUserHandler(repo)
	productHandler := handler.NewProductHandler(repo)
	stockHandler := handler.NewStockHandler(repo)

	e := echo.New()
	e.POST("/auth/login", authHandler.Login)
	e.GET("/packages", packageHandler.List)

	api := e.Group("/api")
	api.Use(middleware.Auth(engine))
	api.GET("/me", authHandler.Me)
	api.GET("/companies", companyHandler.List)
	api.POST("/companies", companyHandler.Create)
	api.GET("/shops", shopHandler.List)
	api.GET("/shops/:id", shopHandler.Get)
	api.POST("/shops", shopHandler.Create)
	api.PATCH("/shops/:id", shopHandler.Update)
	api.GET("/users", userHandler.List)
	api.POST("/users", userHandler.Create)
	api.PATCH("/users/:id", userHandler.Update)
	api.GET("/products", productHandler.List)
	api.POST("/products", productHandler.Create)
	api.GET("/stock/filter/:stock_date", stockHandler.ByDate)

	return e, repo
}

func seed(t *testing.T, repo *repository.Repository) {
	t.Helper()

	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Acme"}, 1))
	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Globex"}, 1))
	require.NoError(t, repo.CreateShop(&model.Shop{Name: "Acme Main", CompanyID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateShop(&model.Shop{Name: "Globex Main", CompanyID: uintPtr(2)}, 1))

	pw := hash(t, "secret")
	users := []model.User{
		{Name: "Root", Phone: "0700000000", UserLevelID: 0, Password: pw},
		{Name: "Admin", Phone: "0700000001", ShopID: uintPtr(1), UserLevelID: 1, Password: pw},
		{Name: "Supervisor", Phone: "0700000002", ShopID: uintPtr(1), UserLevelID: 2, Password: pw},
		{Name: "Clerk", Phone: "0700000003", ShopID: uintPtr(1), UserLevelID: 4, Password: pw},
	}
	for i := range users {
		require.NoError(t, repo.CreateUser(&users[i], 1))
	}
}

func login(t *testing.T, e *echo.Echo, phone string) string {
	t.Helper()
	body := `{"phone":"` + phone + `","password":"secret"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoginWrongPassword(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/login", "", `{"phone":"0700000001","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login", "", `{"phone":"0799999999","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/shops", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/shops", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicLookupNeedsNoToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/packages", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeReturnsCaller(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000003")

	rec := doJSON(e, http.MethodGet, "/api/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Clerk", user.Name)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSuperAdminSeesAllShops(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000000")

	rec := doJSON(e, http.MethodGet, "/api/shops", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var shops []model.Shop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shops))
	assert.Len(t, shops, 2)
}

func TestOrdinaryUserSeesOwnShopOnly(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000003")

	rec := doJSON(e, http.MethodGet, "/api/shops", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var shops []model.Shop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shops))
	require.Len(t, shops, 1)
	assert.Equal(t, "Acme Main", shops[0].Name)

	// The other company's shop is reported as missing, not forbidden.
	rec = doJSON(e, http.MethodGet, "/api/shops/2", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupervisorCannotCreateCompany(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000002")

	rec := doJSON(e, http.MethodPost, "/api/companies", token, `{"name":"Initech"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCreatesShop(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000001")

	rec := doJSON(e, http.MethodPost, "/api/shops", token, `{"name":"Acme Annex","company_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var shop model.Shop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shop))
	assert.Equal(t, "Acme Annex", shop.Name)
	assert.Equal(t, uint(2), shop.CreatedBy)
}

func TestShopUpdateIgnoresProtectedFields(t *testing.T) {
	e, repo := newTestServer(t)
	token := login(t, e, "0700000001")

	rec := doJSON(e, http.MethodPatch, "/api/shops/1", token,
		`{"name":"Acme HQ","id":42,"created_by":99}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	shop, err := repo.GetShop(policy.GlobalScope(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme HQ", shop.Name)
	assert.Equal(t, uint(1), shop.CreatedBy)
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000001")

	rec := doJSON(e, http.MethodPost, "/api/users", token,
		`{"name":"Dup","phone":"0700000003","password":"secret","shop_id":1,"user_level_id":4}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCannotUpdateUserInOtherCompany(t *testing.T) {
	e, repo := newTestServer(t)

	// A clerk in the other company's shop.
	other := model.User{Name: "Outsider", Phone: "0700000010", ShopID: uintPtr(2), UserLevelID: 4, Password: hash(t, "secret")}
	require.NoError(t, repo.CreateUser(&other, 1))

	token := login(t, e, "0700000001")
	rec := doJSON(e, http.MethodPatch, "/api/users/5", token, `{"name":"Hijacked"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPasswordUpdateIsRehashed(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000000")

	rec := doJSON(e, http.MethodPatch, "/api/users/4", token, `{"password":"changed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The old password no longer works, the new one does.
	failed := doJSON(e, http.MethodPost, "/auth/login", "", `{"phone":"0700000003","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, failed.Code)

	ok := doJSON(e, http.MethodPost, "/auth/login", "", `{"phone":"0700000003","password":"changed"}`)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestClerkCannotCreateProduct(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000003")

	rec := doJSON(e, http.MethodPost, "/api/products", token, `{"name":"Soap","shop_id":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSupervisorCreatesAndListsProducts(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000002")

	rec := doJSON(e, http.MethodPost, "/api/products", token, `{"name":"Soap","shop_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/products", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Soap", products[0].Name)
}

func TestStockByDateRejectsBadDate(t *testing.T) {
	e, _ := newTestServer(t)
	token := login(t, e, "0700000002")

	rec := doJSON(e, http.MethodGet, "/api/stock/filter/01-09-2026", token, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestEmptyListIsNotFoundForNonSuperAdmin(t *testing.T) {
	e, _ := newTestServer(t)

	clerk := login(t, e, "0700000003")
	rec := doJSON(e, http.MethodGet, "/api/products", clerk, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The super-admin gets an empty list instead.
	root := login(t, e, "0700000000")
	rec = doJSON(e, http.MethodGet, "/api/products", root, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
