package repository

import (
	"context"

	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	// PublicReviewLimit caps the public product-page listing.
	PublicReviewLimit = 50
	// PendingReviewLimit caps the moderation queue listing.
	PendingReviewLimit = 100
)

// ReviewRepository is the single owner of review records. Every operation
// takes a context so callers can bound it with a request-level timeout.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uint) (*model.Review, error)
	FindByProduct(ctx context.Context, productID uint, onlyApproved bool, limit int) ([]model.Review, error)
	FindPending(ctx context.Context, limit int) ([]model.Review, error)
	FindAllWithProduct(ctx context.Context) ([]model.Review, error)
	IncrementLikes(ctx context.Context, id uint) (*model.Review, error)
	IncrementReports(ctx context.Context, id uint) (*model.Review, error)
	SetApproved(ctx context.Context, id uint, approved bool) (*model.Review, error)
	Delete(ctx context.Context, id uint) error
	ExistsForProductAndEmail(ctx context.Context, productID uint, email string) (bool, error)
	AverageRating(ctx context.Context, productID uint) (model.RatingStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review. The unique index on (product_id, user_email)
// makes this the authoritative duplicate check: two concurrent submissions
// from the same identity cannot both land.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"product_id": review.ProductID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByProduct lists a product's reviews, newest first, ties broken by the
// store-assigned id so the order is total.
func (r *reviewRepository) FindByProduct(ctx context.Context, productID uint, onlyApproved bool, limit int) ([]model.Review, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC")

	if onlyApproved {
		query = query.Where("is_approved = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		logger.Error("Failed to list reviews for product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

// FindPending lists unapproved reviews for the moderation queue, joined
// with their product so the admin UI can show title and image.
func (r *reviewRepository) FindPending(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = PendingReviewLimit
	}

	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list pending reviews", err)
		return nil, err
	}
	return reviews, nil
}

// FindAllWithProduct returns every review with its product, newest first.
// Used by the admin Excel export.
func (r *reviewRepository) FindAllWithProduct(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews for export", err)
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) IncrementLikes(ctx context.Context, id uint) (*model.Review, error) {
	return r.incrementCounter(ctx, id, "likes")
}

func (r *reviewRepository) IncrementReports(ctx context.Context, id uint) (*model.Review, error) {
	return r.incrementCounter(ctx, id, "reports")
}

// incrementCounter bumps a counter in a single UPDATE statement. Doing the
// arithmetic in SQL rather than read-modify-write in Go means concurrent
// increments never lose updates.
func (r *reviewRepository) incrementCounter(ctx context.Context, id uint, column string) (*model.Review, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		logger.Error("Failed to increment review counter", result.Error, map[string]interface{}{
			"review_id": id,
			"counter":   column,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(ctx, id)
}

// SetApproved sets the approval flag. Re-approving an approved review is a
// no-op success.
func (r *reviewRepository) SetApproved(ctx context.Context, id uint, approved bool) (*model.Review, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn("is_approved", approved)
	if result.Error != nil {
		logger.Error("Failed to update review approval", result.Error, map[string]interface{}{
			"review_id": id,
			"approved":  approved,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a review permanently; reviews carry no soft-delete column.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete review", result.Error, map[string]interface{}{
			"review_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) ExistsForProductAndEmail(ctx context.Context, productID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("product_id = ? AND user_email = ?", productID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AverageRating aggregates over approved reviews only. The mean comes back
// unrounded; presentation rounding is the service's concern.
func (r *reviewRepository) AverageRating(ctx context.Context, productID uint) (model.RatingStats, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error
	if err != nil {
		return model.RatingStats{}, err
	}

	return model.RatingStats{
		AverageRating: row.Avg,
		ReviewCount:   row.Count,
	}, nil
}
