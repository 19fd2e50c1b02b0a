package repository

import (
	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var stockColumns = map[string]bool{
	"stock_date":     true,
	"product_id":     true,
	"shop_id":        true,
	"purchase_price": true,
	"selling_price":  true,
	"opening":        true,
	"additions":      true,
}

// StockDateRow is one line of the per-date stock report, joined with the
// product and its category.
type StockDateRow struct {
	ID                uint    `json:"id"`
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	ProductCategoryID uint    `json:"product_category_id"`
	ProductCategory   string  `json:"product_category"`
	Opening           float64 `json:"opening"`
	Additions         float64 `json:"additions"`
}

// ListStock returns the stock rows of the scoped shop.
func (r *Repository) ListStock(sc policy.Scope) ([]model.Stock, error) {
	var stocks []model.Stock
	q := shopLocal(r.db.Model(&model.Stock{}), "stocks", sc)
	if err := q.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetStock returns one stock row of the scoped shop.
func (r *Repository) GetStock(sc policy.Scope, id uint) (*model.Stock, error) {
	var stock model.Stock
	q := shopLocal(r.db.Model(&model.Stock{}), "stocks", sc)
	if err := q.Where("stocks.id = ?", id).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// CreateStock inserts a new stock row with server-stamped audit fields.
func (r *Repository) CreateStock(stock *model.Stock, actorID uint) error {
	stock.ID = 0
	stampCreate(&stock.Audit, actorID)
	return r.db.Create(stock).Error
}

// UpdateStock applies a partial update inside the shop scope.
func (r *Repository) UpdateStock(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Stock, error) {
	stock, err := r.GetStock(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(stock, updates, stockColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(stock, stock.ID).Error; err != nil {
		return nil, err
	}
	return stock, nil
}

// StockByDate returns the scoped shop's stock for one date, joined with
// product names and categories. The date must already be validated.
func (r *Repository) StockByDate(sc policy.Scope, date string) ([]StockDateRow, error) {
	var rows []StockDateRow
	q := shopLocal(r.db.Model(&model.Stock{}), "stocks", sc).
		Joins("JOIN products ON products.id = stocks.product_id").
		Joins("JOIN product_categories ON product_categories.id = products.category_id").
		Where("stocks.stock_date = ?", date).
		Select("stocks.id, stocks.product_id, products.name AS product_name, " +
			"products.category_id AS product_category_id, " +
			"product_categories.name AS product_category, " +
			"stocks.opening, stocks.additions")
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
