package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Company{}, &model.License{}, &model.Package{},
		&model.Shop{}, &model.ShopType{},
		&model.User{}, &model.UserLevel{},
		&model.ProductCategory{}, &model.Product{}, &model.Stock{},
		&model.Customer{}, &model.Bill{}, &model.Payment{}, &model.PaymentMode{},
		&model.Expense{}, &model.Cashbox{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func uintPtr(v uint) *uint {
	return &v
}

// seedShops creates two companies with one shop each and returns the repo.
func seedShops(t *testing.T, db *gorm.DB) *Repository {
	t.Helper()
	repo := New(db)
	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Acme"}, 1))
	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Globex"}, 1))
	require.NoError(t, repo.CreateShop(&model.Shop{Name: "Acme Main", CompanyID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateShop(&model.Shop{Name: "Acme Branch", CompanyID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateShop(&model.Shop{Name: "Globex Main", CompanyID: uintPtr(2)}, 1))
	return repo
}

func TestShopScopes(t *testing.T) {
	repo := seedShops(t, setupTestDB(t))

	all, err := repo.ListShops(policy.GlobalScope())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	acme, err := repo.ListShops(policy.CompanyScope(1))
	require.NoError(t, err)
	require.Len(t, acme, 2)
	for _, s := range acme {
		assert.Equal(t, uint(1), *s.CompanyID)
	}

	own, err := repo.ListShops(policy.ShopScope(3))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Globex Main", own[0].Name)

	// A shop outside the scope is indistinguishable from a missing one.
	_, err = repo.GetShop(policy.CompanyScope(1), 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Self scope never matches shops.
	none, err := repo.ListShops(policy.SelfScope(1))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompanyScopes(t *testing.T) {
	repo := seedShops(t, setupTestDB(t))

	all, err := repo.ListCompanies(policy.GlobalScope())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := repo.ListCompanies(policy.CompanyScope(2))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Globex", own[0].Name)

	_, err = repo.GetCompany(policy.CompanyScope(2), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLicenseCompanyScope(t *testing.T) {
	db := setupTestDB(t)
	repo := New(db)

	require.NoError(t, repo.CreateLicense(&model.License{Key: "LIC-1", PackageID: 1}, 1))
	require.NoError(t, repo.CreateLicense(&model.License{Key: "LIC-2", PackageID: 1}, 1))
	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Acme", LicenseID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Globex", LicenseID: uintPtr(2)}, 1))

	all, err := repo.ListLicenses(policy.GlobalScope())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := repo.ListLicenses(policy.CompanyScope(2))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "LIC-2", own[0].Key)

	_, err = repo.GetLicense(policy.CompanyScope(2), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserCompanyScopeJoinsThroughShop(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	require.NoError(t, repo.CreateUser(&model.User{Name: "Alice", Phone: "0700000001", ShopID: uintPtr(1), UserLevelID: 2, Password: "x"}, 1))
	require.NoError(t, repo.CreateUser(&model.User{Name: "Bob", Phone: "0700000002", ShopID: uintPtr(2), UserLevelID: 4, Password: "x"}, 1))
	require.NoError(t, repo.CreateUser(&model.User{Name: "Carol", Phone: "0700000003", ShopID: uintPtr(3), UserLevelID: 4, Password: "x"}, 1))

	acme, err := repo.ListUsers(policy.CompanyScope(1))
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	self, err := repo.ListUsers(policy.SelfScope(3))
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, "Carol", self[0].Name)

	_, err = repo.GetUser(policy.CompanyScope(1), 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateStampsAudit(t *testing.T) {
	repo := New(setupTestDB(t))

	shop := model.Shop{Name: "Main"}
	// Client-supplied audit data must be discarded.
	shop.CreatedBy = 999
	require.NoError(t, repo.CreateShop(&shop, 7))

	assert.Equal(t, uint(7), shop.CreatedBy)
	require.NotNil(t, shop.UpdatedBy)
	assert.Equal(t, uint(7), *shop.UpdatedBy)
	assert.False(t, shop.CreatedAt.IsZero())
}

func TestUpdateIgnoresProtectedColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	updates := map[string]interface{}{
		"name":       "Acme HQ",
		"id":         42,
		"created_by": 99,
		"updated_by": 99,
		"bogus":      "nope",
	}
	shop, err := repo.UpdateShop(1, updates, 5)
	require.NoError(t, err)

	assert.Equal(t, uint(1), shop.ID)
	assert.Equal(t, "Acme HQ", shop.Name)
	assert.Equal(t, uint(1), shop.CreatedBy)
	require.NotNil(t, shop.UpdatedBy)
	assert.Equal(t, uint(5), *shop.UpdatedBy)
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	db := setupTestDB(t)
	repo := New(db)

	require.NoError(t, repo.CreateShopType(&model.ShopType{Name: "Pharmacy", Description: "drug store"}, 1))

	updated, err := repo.UpdateShopType(1, map[string]interface{}{"name": "Chemist"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Chemist", updated.Name)
	assert.Equal(t, "drug store", updated.Description)
}

func TestDuplicateCompanyName(t *testing.T) {
	repo := New(setupTestDB(t))

	require.NoError(t, repo.CreateCompany(&model.Company{Name: "Acme"}, 1))
	err := repo.CreateCompany(&model.Company{Name: "Acme"}, 1)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDuplicateUserPhone(t *testing.T) {
	repo := New(setupTestDB(t))

	require.NoError(t, repo.CreateUser(&model.User{Name: "Alice", Phone: "0700000001", UserLevelID: 3, Password: "x"}, 1))
	err := repo.CreateUser(&model.User{Name: "Alice Again", Phone: "0700000001", UserLevelID: 3, Password: "x"}, 1)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductShopScope(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	require.NoError(t, repo.CreateProduct(&model.Product{Name: "Soap", ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateProduct(&model.Product{Name: "Bread", ShopID: uintPtr(3)}, 1))

	own, err := repo.ListProducts(policy.ShopScope(1))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Soap", own[0].Name)

	// Global scope does not open up shop-local entities.
	none, err := repo.ListProducts(policy.GlobalScope())
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.GetProduct(policy.ShopScope(1), 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateProductOutsideScope(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	require.NoError(t, repo.CreateProduct(&model.Product{Name: "Soap", ShopID: uintPtr(1)}, 1))

	_, err := repo.UpdateProduct(policy.ShopScope(3), 1, map[string]interface{}{"name": "Detergent"}, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStockByDate(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	require.NoError(t, repo.CreateProductCategory(&model.ProductCategory{Name: "Drinks", ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateProduct(&model.Product{Name: "Soda", CategoryID: uintPtr(1), ShopID: uintPtr(1)}, 1))

	require.NoError(t, repo.CreateStock(&model.Stock{StockDate: "2026-09-01", ProductID: 1, ShopID: 1, Opening: 10, Additions: 5}, 1))
	require.NoError(t, repo.CreateStock(&model.Stock{StockDate: "2026-08-31", ProductID: 1, ShopID: 1, Opening: 8, Additions: 2}, 1))

	rows, err := repo.StockByDate(policy.ShopScope(1), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Soda", rows[0].ProductName)
	assert.Equal(t, "Drinks", rows[0].ProductCategory)
	assert.Equal(t, 10.0, rows[0].Opening)
	assert.Equal(t, 5.0, rows[0].Additions)

	other, err := repo.StockByDate(policy.ShopScope(2), "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCompanyOfShop(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	company, err := repo.CompanyOfShop(uintPtr(3))
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, uint(2), *company)

	company, err = repo.CompanyOfShop(nil)
	require.NoError(t, err)
	assert.Nil(t, company)
}

func TestRetailEntitiesShopScope(t *testing.T) {
	db := setupTestDB(t)
	repo := seedShops(t, db)

	require.NoError(t, repo.CreateCustomer(&model.Customer{Name: "Jane", ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateBill(&model.Bill{CustomerID: uintPtr(1), Total: 120, ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreatePayment(&model.Payment{BillID: uintPtr(1), Amount: 120, ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateExpense(&model.Expense{Name: "Rent", Amount: 500, ShopID: uintPtr(1)}, 1))
	require.NoError(t, repo.CreateCashbox(&model.Cashbox{Date: "2026-09-01", Cash: 300, Mpesa: 150, ShopID: uintPtr(1)}, 1))

	bills, err := repo.ListBills(policy.ShopScope(1))
	require.NoError(t, err)
	assert.Len(t, bills, 1)

	none, err := repo.ListBills(policy.ShopScope(2))
	require.NoError(t, err)
	assert.Empty(t, none)

	payments, err := repo.ListPayments(policy.ShopScope(1))
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	_, err = repo.GetExpense(policy.ShopScope(2), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	box, err := repo.ListCashbox(policy.ShopScope(1))
	require.NoError(t, err)
	require.Len(t, box, 1)
	assert.Equal(t, 300.0, box[0].Cash)
}
