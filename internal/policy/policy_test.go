package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestCanCreateGates(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		entity  Entity
		allowed bool
	}{
		{"super-admin creates package", LevelSuperAdmin, EntityPackage, true},
		{"admin cannot create package", LevelAdmin, EntityPackage, false},
		{"admin creates company", LevelAdmin, EntityCompany, true},
		{"supervisor cannot create company", LevelSupervisor, EntityCompany, false},
		{"supervisor creates product", LevelSupervisor, EntityProduct, true},
		{"ordinary user cannot create product", 3, EntityProduct, false},
		{"ordinary user creates customer", 7, EntityCustomer, true},
		{"ordinary user creates bill", 5, EntityBill, true},
		{"ordinary user creates license", 9, EntityLicense, true},
		{"admin cannot create user level", LevelAdmin, EntityUserLevel, false},
		{"admin creates user", LevelAdmin, EntityUser, true},
		{"supervisor cannot create user", LevelSupervisor, EntityUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCreate(Actor{UserID: 1, Level: tt.level}, tt.entity)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCanUpdateGates(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		entity  Entity
		allowed bool
	}{
		{"super-admin updates license", LevelSuperAdmin, EntityLicense, true},
		{"admin cannot update license", LevelAdmin, EntityLicense, false},
		{"ordinary user cannot update license", 4, EntityLicense, false},
		{"admin updates shop", LevelAdmin, EntityShop, true},
		{"supervisor cannot update shop", LevelSupervisor, EntityShop, false},
		{"supervisor updates stock", LevelSupervisor, EntityStock, true},
		{"ordinary user updates payment", 6, EntityPayment, true},
		{"admin cannot update payment mode", LevelAdmin, EntityPaymentMode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanUpdate(Actor{UserID: 1, Level: tt.level}, tt.entity)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCanCreateUnknownEntity(t *testing.T) {
	err := CanCreate(Actor{Level: LevelSuperAdmin}, Entity("nonsense"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCanUpdateUser(t *testing.T) {
	tests := []struct {
		name          string
		actor         Actor
		targetCompany *uint
		allowed       bool
	}{
		{
			"super-admin updates anyone",
			Actor{UserID: 1, Level: LevelSuperAdmin},
			uintPtr(9),
			true,
		},
		{
			"admin updates user in own company",
			Actor{UserID: 2, Level: LevelAdmin, CompanyID: uintPtr(4)},
			uintPtr(4),
			true,
		},
		{
			"admin cannot update user in another company",
			Actor{UserID: 2, Level: LevelAdmin, CompanyID: uintPtr(4)},
			uintPtr(5),
			false,
		},
		{
			"admin without company cannot update",
			Actor{UserID: 2, Level: LevelAdmin},
			uintPtr(4),
			false,
		},
		{
			"admin cannot update user with no company",
			Actor{UserID: 2, Level: LevelAdmin, CompanyID: uintPtr(4)},
			nil,
			false,
		},
		{
			"supervisor cannot update users at all",
			Actor{UserID: 3, Level: LevelSupervisor, CompanyID: uintPtr(4)},
			uintPtr(4),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanUpdateUser(tt.actor, tt.targetCompany)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestReadScopeLookupsAreGlobal(t *testing.T) {
	ordinary := Actor{UserID: 9, Level: 5, ShopID: uintPtr(2)}
	for _, e := range []Entity{EntityPackage, EntityShopType, EntityUserLevel, EntityPaymentMode} {
		sc := ReadScope(ordinary, e)
		assert.Equal(t, ScopeGlobal, sc.Kind, "entity %s", e)
	}
}

func TestReadScopeCompanyEntities(t *testing.T) {
	super := Actor{UserID: 1, Level: LevelSuperAdmin}
	admin := Actor{UserID: 2, Level: LevelAdmin, ShopID: uintPtr(3), CompanyID: uintPtr(7)}

	require.Equal(t, ScopeGlobal, ReadScope(super, EntityCompany).Kind)
	require.Equal(t, ScopeGlobal, ReadScope(super, EntityLicense).Kind)

	sc := ReadScope(admin, EntityCompany)
	require.Equal(t, ScopeCompany, sc.Kind)
	assert.Equal(t, uint(7), sc.CompanyID)
}

func TestReadScopeShop(t *testing.T) {
	super := Actor{UserID: 1, Level: LevelSuperAdmin}
	supervisor := Actor{UserID: 2, Level: LevelSupervisor, ShopID: uintPtr(3), CompanyID: uintPtr(7)}
	ordinary := Actor{UserID: 3, Level: 4, ShopID: uintPtr(3), CompanyID: uintPtr(7)}

	assert.Equal(t, ScopeGlobal, ReadScope(super, EntityShop).Kind)

	sc := ReadScope(supervisor, EntityShop)
	require.Equal(t, ScopeCompany, sc.Kind)
	assert.Equal(t, uint(7), sc.CompanyID)

	sc = ReadScope(ordinary, EntityShop)
	require.Equal(t, ScopeShop, sc.Kind)
	assert.Equal(t, uint(3), sc.ShopID)
}

func TestReadScopeUser(t *testing.T) {
	admin := Actor{UserID: 2, Level: LevelAdmin, CompanyID: uintPtr(7)}
	ordinary := Actor{UserID: 3, Level: 4, ShopID: uintPtr(3)}

	sc := ReadScope(admin, EntityUser)
	require.Equal(t, ScopeCompany, sc.Kind)
	assert.Equal(t, uint(7), sc.CompanyID)

	sc = ReadScope(ordinary, EntityUser)
	require.Equal(t, ScopeSelf, sc.Kind)
	assert.Equal(t, uint(3), sc.UserID)
}

func TestReadScopeShopLocalEntities(t *testing.T) {
	// Even a super-admin reads shop-local records through their own shop.
	super := Actor{UserID: 1, Level: LevelSuperAdmin, ShopID: uintPtr(5)}
	ordinary := Actor{UserID: 3, Level: 4, ShopID: uintPtr(2)}

	for _, e := range []Entity{EntityProduct, EntityProductCategory, EntityStock, EntityCustomer, EntityBill, EntityPayment, EntityExpense, EntityCashbox} {
		sc := ReadScope(super, e)
		require.Equal(t, ScopeShop, sc.Kind, "entity %s", e)
		assert.Equal(t, uint(5), sc.ShopID, "entity %s", e)

		sc = ReadScope(ordinary, e)
		require.Equal(t, ScopeShop, sc.Kind, "entity %s", e)
		assert.Equal(t, uint(2), sc.ShopID, "entity %s", e)
	}
}

func TestReadScopeWithoutShopMatchesNothing(t *testing.T) {
	// An actor with no shop assignment gets a shop scope of zero, which can
	// never match a real row.
	actor := Actor{UserID: 3, Level: 4}
	sc := ReadScope(actor, EntityProduct)
	require.Equal(t, ScopeShop, sc.Kind)
	assert.Equal(t, uint(0), sc.ShopID)
}
