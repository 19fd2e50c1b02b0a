package model

// Product belongs to a shop and a product category.
type Product struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"type:varchar(100);not null"`
	PurchasePrice float64 `json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	CategoryID    *uint   `json:"category_id" gorm:"index"`
	ShopID        *uint   `json:"shop_id" gorm:"index"`
	Audit         `gorm:"embedded"`
}

// ProductCategory groups a shop's products.
type ProductCategory struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"type:varchar(100);not null"`
	ShopID *uint  `json:"shop_id" gorm:"index"`
	Audit  `gorm:"embedded"`
}

// Stock records a day's opening quantity and additions for a product,
// with price snapshots taken at entry time.
type Stock struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	StockDate     string  `json:"stock_date" gorm:"type:date;index"`
	ProductID     uint    `json:"product_id" gorm:"index;not null"`
	ShopID        uint    `json:"shop_id" gorm:"index;not null"`
	PurchasePrice float64 `json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	Opening       float64 `json:"opening"`
	Additions     float64 `json:"additions"`
	Audit         `gorm:"embedded"`
}
