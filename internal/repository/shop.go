package repository

import (
	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var shopColumns = map[string]bool{
	"name":         true,
	"location":     true,
	"company_id":   true,
	"shop_type_id": true,
	"phone_1":      true,
	"phone_2":      true,
	"paybill":      true,
	"account_no":   true,
	"till_no":      true,
}

var shopTypeColumns = map[string]bool{
	"name":        true,
	"description": true,
}

// shopsQuery compiles the read scope into the shop filter.
func (r *Repository) shopsQuery(sc policy.Scope) *gorm.DB {
	base := r.db.Model(&model.Shop{})
	switch sc.Kind {
	case policy.ScopeGlobal:
		return base
	case policy.ScopeCompany:
		return base.Where("shops.company_id = ?", sc.CompanyID)
	case policy.ScopeShop:
		return base.Where("shops.id = ?", sc.ShopID)
	default:
		return base.Where("1 = 0")
	}
}

// ListShops returns every shop visible in the scope.
func (r *Repository) ListShops(sc policy.Scope) ([]model.Shop, error) {
	var shops []model.Shop
	if err := r.shopsQuery(sc).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// GetShop returns one shop by id if the scope can see it.
func (r *Repository) GetShop(sc policy.Scope, id uint) (*model.Shop, error) {
	var shop model.Shop
	if err := r.shopsQuery(sc).Where("shops.id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// CreateShop inserts a new shop with server-stamped audit fields.
func (r *Repository) CreateShop(shop *model.Shop, actorID uint) error {
	shop.ID = 0
	stampCreate(&shop.Audit, actorID)
	return r.db.Create(shop).Error
}

// UpdateShop applies a partial update. The fetch is unscoped: the role gate
// is the only guard on shop mutation.
func (r *Repository) UpdateShop(id uint, updates map[string]interface{}, actorID uint) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.First(&shop, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&shop, updates, shopColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// CompanyOfShop resolves the company a shop belongs to; nil when the shop
// reference is nil or the shop has no company.
func (r *Repository) CompanyOfShop(shopID *uint) (*uint, error) {
	if shopID == nil {
		return nil, nil
	}
	var shop model.Shop
	if err := r.db.Select("company_id").First(&shop, *shopID).Error; err != nil {
		return nil, err
	}
	return shop.CompanyID, nil
}

// ListShopTypes returns every shop type; the lookup is global.
func (r *Repository) ListShopTypes() ([]model.ShopType, error) {
	var types []model.ShopType
	if err := r.db.Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// GetShopType returns one shop type by id.
func (r *Repository) GetShopType(id uint) (*model.ShopType, error) {
	var shopType model.ShopType
	if err := r.db.First(&shopType, id).Error; err != nil {
		return nil, err
	}
	return &shopType, nil
}

// CreateShopType inserts a new shop type.
func (r *Repository) CreateShopType(shopType *model.ShopType, actorID uint) error {
	shopType.ID = 0
	stampCreate(&shopType.Audit, actorID)
	return r.db.Create(shopType).Error
}

// UpdateShopType applies a partial update to a shop type.
func (r *Repository) UpdateShopType(id uint, updates map[string]interface{}, actorID uint) (*model.ShopType, error) {
	var shopType model.ShopType
	if err := r.db.First(&shopType, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&shopType, updates, shopTypeColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&shopType, id).Error; err != nil {
		return nil, err
	}
	return &shopType, nil
}
