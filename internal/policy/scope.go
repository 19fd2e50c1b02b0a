package policy

// ScopeKind tags the scope variants.
type ScopeKind int

const (
	// ScopeGlobal places no restriction on the result set.
	ScopeGlobal ScopeKind = iota
	// ScopeCompany restricts rows to one company's subtree.
	ScopeCompany
	// ScopeShop restricts rows to one shop.
	ScopeShop
	// ScopeSelf restricts rows to the caller's own record.
	ScopeSelf
)

// Scope is the declarative filter the engine hands to the repository layer.
// The repository compiles it into the query condition appropriate for the
// entity being read; the policy never shapes SQL itself.
type Scope struct {
	Kind      ScopeKind
	CompanyID uint
	ShopID    uint
	UserID    uint
}

// GlobalScope returns the unrestricted scope.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// CompanyScope restricts reads to the given company.
func CompanyScope(companyID uint) Scope {
	return Scope{Kind: ScopeCompany, CompanyID: companyID}
}

// ShopScope restricts reads to the given shop.
func ShopScope(shopID uint) Scope {
	return Scope{Kind: ScopeShop, ShopID: shopID}
}

// SelfScope restricts reads to the caller's own record.
func SelfScope(userID uint) Scope {
	return Scope{Kind: ScopeSelf, UserID: userID}
}

// ReadScope computes the visibility scope the actor gets on the entity.
// An actor without a shop (or company) still receives a company/shop scope;
// the compiled filter then matches nothing, which callers surface as 404.
func ReadScope(a Actor, e Entity) Scope {
	switch e {
	case EntityPackage, EntityShopType, EntityUserLevel, EntityPaymentMode:
		// Global lookups, readable by anyone.
		return GlobalScope()

	case EntityCompany, EntityLicense:
		if a.IsSuperAdmin() {
			return GlobalScope()
		}
		return CompanyScope(derefOrZero(a.CompanyID))

	case EntityShop:
		if a.IsSuperAdmin() {
			return GlobalScope()
		}
		if a.Level <= LevelSupervisor {
			return CompanyScope(derefOrZero(a.CompanyID))
		}
		return ShopScope(derefOrZero(a.ShopID))

	case EntityUser:
		if a.IsSuperAdmin() {
			return GlobalScope()
		}
		if a.Level <= LevelSupervisor {
			return CompanyScope(derefOrZero(a.CompanyID))
		}
		return SelfScope(a.UserID)

	default:
		// Shop-local entities are pinned to the caller's own shop for
		// every role, super-admin included.
		return ShopScope(derefOrZero(a.ShopID))
	}
}

func derefOrZero(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
