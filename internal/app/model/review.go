package model

import (
	"time"
)

// Review is a customer rating-plus-text record for a product. The reviewer
// is identified by a self-reported email address used only as a dedup key,
// never as an authenticated identity.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProductID uint     `gorm:"not null;uniqueIndex:idx_reviews_product_email;index" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	UserName  string `gorm:"size:100;not null" json:"userName"`
	UserEmail string `gorm:"size:255;not null;uniqueIndex:idx_reviews_product_email" json:"userEmail"`

	Rating           int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment          string `gorm:"type:text;not null" json:"comment"`
	RecommendProduct bool   `gorm:"not null;default:false" json:"recommendProduct"`

	// Abuse signal counters. Incremented in a single UPDATE statement so
	// concurrent requests never lose updates; they only ever grow.
	Likes   int `gorm:"not null;default:0" json:"likes"`
	Reports int `gorm:"not null;default:0" json:"reports"`

	// IsApproved gates public visibility and stats aggregation. New reviews
	// start unapproved and sit in the moderation queue; deletion is hard,
	// there is no rejected-but-retained state.
	IsApproved bool `gorm:"not null;default:false;index" json:"isApproved"`
}

func (Review) TableName() string {
	return "reviews"
}

// RatingStats is the aggregate a product page shows next to its reviews.
type RatingStats struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}
