package model

// Shop belongs to a company and owns users, products and stock.
type Shop struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"type:varchar(100);not null"`
	Location   string `json:"location" gorm:"type:varchar(255)"`
	CompanyID  *uint  `json:"company_id" gorm:"index"`
	ShopTypeID *uint  `json:"shop_type_id" gorm:"index"`
	Phone1     string `json:"phone_1" gorm:"column:phone_1;type:varchar(20)"`
	Phone2     string `json:"phone_2" gorm:"column:phone_2;type:varchar(20)"`
	Paybill    string `json:"paybill" gorm:"type:varchar(20)"`
	AccountNo  string `json:"account_no" gorm:"type:varchar(50)"`
	TillNo     string `json:"till_no" gorm:"type:varchar(20)"`
	Audit      `gorm:"embedded"`
}

// ShopType is a global lookup describing the kind of shop.
type ShopType struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`
	Audit       `gorm:"embedded"`
}
