package model

import "time"

// Company owns shops and references at most one purchased license.
type Company struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	LicenseID *uint  `json:"license_id" gorm:"index"`
	Audit     `gorm:"embedded"`
}

// License is a purchased entitlement tied to a package. The expiry is stored
// but not enforced anywhere.
type License struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Key       string     `json:"key" gorm:"type:varchar(100);uniqueIndex;not null"`
	PackageID uint       `json:"package_id" gorm:"index"`
	ExpiresAt *time.Time `json:"expires_at"`
	PaymentID *uint      `json:"payment_id"`
	Audit     `gorm:"embedded"`
}

// Package describes a purchasable software plan.
type Package struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	Amount      float64 `json:"amount"`
	Pay         float64 `json:"pay"`
	Validity    int     `json:"validity"`
	Color       string  `json:"color" gorm:"type:varchar(20)"`
	Description string  `json:"description" gorm:"type:text"`
	Offer       string  `json:"offer" gorm:"type:text"`
	Audit       `gorm:"embedded"`
}
