package model

// User represents an account belonging to a shop. The user level id doubles
// as the privilege level: lower value means more privilege.
type User struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Phone       string `json:"phone" gorm:"type:varchar(20);uniqueIndex;not null"`
	ShopID      *uint  `json:"shop_id" gorm:"index"`
	UserLevelID uint   `json:"user_level_id" gorm:"index"`
	Password    string `json:"-" gorm:"type:varchar(255)"`
	Audit       `gorm:"embedded"`
}

// UserLevel names a privilege level. Level 0 is the super-admin.
type UserLevel struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Level       int    `json:"level"`
	Description string `json:"description" gorm:"type:text"`
	Audit       `gorm:"embedded"`
}
