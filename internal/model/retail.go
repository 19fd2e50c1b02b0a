package model

// Customer is a shop's walk-in or account customer.
type Customer struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"type:varchar(100);not null"`
	Phone  string `json:"phone" gorm:"type:varchar(20)"`
	ShopID *uint  `json:"shop_id" gorm:"index"`
	Audit  `gorm:"embedded"`
}

// Bill totals a customer's purchase in a shop.
type Bill struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CustomerID *uint   `json:"customer_id" gorm:"index"`
	Total      float64 `json:"total"`
	Paid       float64 `json:"paid"`
	ShopID     *uint   `json:"shop_id" gorm:"index"`
	Audit      `gorm:"embedded"`
}

// Payment settles part or all of a bill through a payment mode.
type Payment struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	BillID        *uint   `json:"bill_id" gorm:"index"`
	Amount        float64 `json:"amount"`
	PaymentModeID *uint   `json:"payment_mode_id" gorm:"index"`
	ShopID        *uint   `json:"shop_id" gorm:"index"`
	Audit         `gorm:"embedded"`
}

// PaymentMode is a global lookup of accepted payment channels.
type PaymentMode struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"type:varchar(100);not null"`
	Audit `gorm:"embedded"`
}

// Expense records money spent by a shop on a given day.
type Expense struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Date   string  `json:"date" gorm:"type:date"`
	Name   string  `json:"name" gorm:"type:varchar(100);not null"`
	Amount float64 `json:"amount"`
	ShopID *uint   `json:"shop_id" gorm:"index"`
	Audit  `gorm:"embedded"`
}

// Cashbox is a shop's end-of-day cash and mobile-money count.
type Cashbox struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Date   string  `json:"date" gorm:"type:date"`
	Cash   float64 `json:"cash"`
	Mpesa  float64 `json:"mpesa"`
	ShopID *uint   `json:"shop_id" gorm:"index"`
	Audit  `gorm:"embedded"`
}
