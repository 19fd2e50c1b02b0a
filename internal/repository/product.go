package repository

import (
	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var productColumns = map[string]bool{
	"name":           true,
	"purchase_price": true,
	"selling_price":  true,
	"category_id":    true,
	"shop_id":        true,
}

var productCategoryColumns = map[string]bool{
	"name":    true,
	"shop_id": true,
}

// shopLocal compiles the shop scope shared by every shop-local entity.
func shopLocal(base *gorm.DB, table string, sc policy.Scope) *gorm.DB {
	if sc.Kind != policy.ScopeShop {
		return base.Where("1 = 0")
	}
	return base.Where(table+".shop_id = ?", sc.ShopID)
}

// ListProducts returns the products of the scoped shop.
func (r *Repository) ListProducts(sc policy.Scope) ([]model.Product, error) {
	var products []model.Product
	q := shopLocal(r.db.Model(&model.Product{}), "products", sc)
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product of the scoped shop.
func (r *Repository) GetProduct(sc policy.Scope, id uint) (*model.Product, error) {
	var product model.Product
	q := shopLocal(r.db.Model(&model.Product{}), "products", sc)
	if err := q.Where("products.id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product with server-stamped audit fields.
func (r *Repository) CreateProduct(product *model.Product, actorID uint) error {
	product.ID = 0
	stampCreate(&product.Audit, actorID)
	return r.db.Create(product).Error
}

// UpdateProduct applies a partial update; the fetch stays inside the
// caller's shop scope.
func (r *Repository) UpdateProduct(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Product, error) {
	product, err := r.GetProduct(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(product, updates, productColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(product, product.ID).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ListProductCategories returns the categories of the scoped shop.
func (r *Repository) ListProductCategories(sc policy.Scope) ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	q := shopLocal(r.db.Model(&model.ProductCategory{}), "product_categories", sc)
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProductCategory returns one category of the scoped shop.
func (r *Repository) GetProductCategory(sc policy.Scope, id uint) (*model.ProductCategory, error) {
	var category model.ProductCategory
	q := shopLocal(r.db.Model(&model.ProductCategory{}), "product_categories", sc)
	if err := q.Where("product_categories.id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateProductCategory inserts a new category with server-stamped audit fields.
func (r *Repository) CreateProductCategory(category *model.ProductCategory, actorID uint) error {
	category.ID = 0
	stampCreate(&category.Audit, actorID)
	return r.db.Create(category).Error
}

// UpdateProductCategory applies a partial update inside the shop scope.
func (r *Repository) UpdateProductCategory(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.ProductCategory, error) {
	category, err := r.GetProductCategory(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(category, updates, productCategoryColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(category, category.ID).Error; err != nil {
		return nil, err
	}
	return category, nil
}
