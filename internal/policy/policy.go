// Package policy is the single place where visibility and mutation rights
// are decided. Every handler asks this package two questions: may this actor
// perform this operation (CanCreate/CanUpdate), and which rows may this
// actor read (ReadScope). The answers come from one declarative table, so
// the per-entity rules cannot drift apart.
package policy

import "errors"

// Entity identifies a resource class in the permission table.
type Entity string

const (
	EntityCompany         Entity = "company"
	EntityLicense         Entity = "license"
	EntityPackage         Entity = "package"
	EntityShop            Entity = "shop"
	EntityShopType        Entity = "shop_type"
	EntityUser            Entity = "user"
	EntityUserLevel       Entity = "user_level"
	EntityProductCategory Entity = "product_category"
	EntityProduct         Entity = "product"
	EntityStock           Entity = "stock"
	EntityCustomer        Entity = "customer"
	EntityBill            Entity = "bill"
	EntityPayment         Entity = "payment"
	EntityPaymentMode     Entity = "payment_mode"
	EntityExpense         Entity = "expense"
	EntityCashbox         Entity = "cashbox"
)

// Privilege levels. Lower value means more privilege; anything above
// LevelSupervisor is an ordinary user.
const (
	LevelSuperAdmin = 0
	LevelAdmin      = 1
	LevelSupervisor = 2
)

// LevelAny gates an operation open to every authenticated caller.
const LevelAny = int(^uint(0) >> 1)

// ErrForbidden is returned when the actor's level is below the gate for the
// requested operation.
var ErrForbidden = errors.New("insufficient privileges")

// Actor is the resolved identity a request acts as.
type Actor struct {
	UserID    uint
	Level     int
	ShopID    *uint
	CompanyID *uint
}

// IsSuperAdmin reports whether the actor has unrestricted global scope.
func (a Actor) IsSuperAdmin() bool {
	return a.Level == LevelSuperAdmin
}

// gates holds the maximum level allowed to perform each write. A caller may
// write when its level is <= the gate.
type gates struct {
	create int
	update int
}

var permissions = map[Entity]gates{
	EntityCompany:         {create: LevelAdmin, update: LevelAdmin},
	EntityLicense:         {create: LevelAny, update: LevelSuperAdmin},
	EntityPackage:         {create: LevelSuperAdmin, update: LevelSuperAdmin},
	EntityShop:            {create: LevelAdmin, update: LevelAdmin},
	EntityShopType:        {create: LevelSuperAdmin, update: LevelSuperAdmin},
	EntityUser:            {create: LevelAdmin, update: LevelAdmin},
	EntityUserLevel:       {create: LevelSuperAdmin, update: LevelSuperAdmin},
	EntityProductCategory: {create: LevelSupervisor, update: LevelSupervisor},
	EntityProduct:         {create: LevelSupervisor, update: LevelSupervisor},
	EntityStock:           {create: LevelSupervisor, update: LevelSupervisor},
	EntityCustomer:        {create: LevelAny, update: LevelAny},
	EntityBill:            {create: LevelAny, update: LevelAny},
	EntityPayment:         {create: LevelAny, update: LevelAny},
	EntityPaymentMode:     {create: LevelSuperAdmin, update: LevelSuperAdmin},
	EntityExpense:         {create: LevelSupervisor, update: LevelSupervisor},
	EntityCashbox:         {create: LevelSupervisor, update: LevelSupervisor},
}

// CanCreate checks the create gate for the entity.
func CanCreate(a Actor, e Entity) error {
	g, ok := permissions[e]
	if !ok || a.Level > g.create {
		return ErrForbidden
	}
	return nil
}

// CanUpdate checks the update gate for the entity.
func CanUpdate(a Actor, e Entity) error {
	g, ok := permissions[e]
	if !ok || a.Level > g.update {
		return ErrForbidden
	}
	return nil
}

// CanUpdateUser applies the extra restriction on user updates: an admin
// (level 1) may only touch users inside their own company. Super-admins are
// unrestricted; anyone below admin is already rejected by CanUpdate.
func CanUpdateUser(a Actor, targetCompanyID *uint) error {
	if err := CanUpdate(a, EntityUser); err != nil {
		return err
	}
	if a.Level != LevelAdmin {
		return nil
	}
	if a.CompanyID == nil || targetCompanyID == nil || *a.CompanyID != *targetCompanyID {
		return ErrForbidden
	}
	return nil
}
