package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryJackets ProductCategory = "Jackets"
	CategoryWallets ProductCategory = "Wallets"
	CategoryBelts   ProductCategory = "Belts"
)

// ValidCategory reports whether c is one of the catalog categories.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryJackets, CategoryWallets, CategoryBelts:
		return true
	}
	return false
}

type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	ActualPrice float64 `gorm:"not null" json:"actualPrice"`
	OfferPrice  float64 `gorm:"not null;default:0" json:"offerPrice"`

	// S3 object URLs, stored as a JSON column so the sqlite test store
	// can round-trip them as well.
	Images []string `gorm:"serializer:json" json:"images"`

	Category ProductCategory `gorm:"type:varchar(20);not null" json:"category"`

	Reviews []Review `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
