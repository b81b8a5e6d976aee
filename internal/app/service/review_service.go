package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/internal/app/repository"
	apperrors "github.com/lederhaus/lederhaus-backend/internal/errors"
	"github.com/lederhaus/lederhaus-backend/pkg/logger"
	"github.com/lederhaus/lederhaus-backend/pkg/redis"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	maxReviewerNameLen = 100
	maxCommentLen      = 1000
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this product")
	ErrMissingFields   = errors.New("all fields are required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrNameTooLong     = errors.New("reviewer name cannot exceed 100 characters")
	ErrCommentTooLong  = errors.New("comment cannot exceed 1000 characters")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitReviewInput is a raw submission before normalization.
type SubmitReviewInput struct {
	ProductID        uint
	UserName         string
	UserEmail        string
	Rating           int
	Comment          string
	RecommendProduct bool
}

type ReviewService interface {
	Submit(ctx context.Context, input SubmitReviewInput) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]model.Review, error)
	ProductStats(ctx context.Context, productID uint) model.RatingStats
	Like(ctx context.Context, id uint) (*model.Review, error)
	Report(ctx context.Context, id uint) (*model.Review, error)
	PendingReviews(ctx context.Context) ([]model.Review, error)
	Approve(ctx context.Context, id uint) (*model.Review, error)
	Delete(ctx context.Context, id uint) error
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

// Submit validates and persists a new review. The reviewer email is only a
// dedup key: it is normalized (trimmed, lowercased) and compared
// case-insensitively, but never authenticated. New reviews start unapproved
// and wait in the moderation queue.
func (s *reviewService) Submit(ctx context.Context, input SubmitReviewInput) (*model.Review, error) {
	review, err := normalizeSubmission(input)
	if err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index on (product_id, user_email)
	// remains the race-free enforcement at insert time.
	exists, err := s.reviewRepo.ExistsForProductAndEmail(ctx, review.ProductID, review.UserEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	})

	redis.InvalidateReviewStats(ctx, review.ProductID)
	return review, nil
}

func normalizeSubmission(input SubmitReviewInput) (*model.Review, error) {
	name := strings.TrimSpace(input.UserName)
	email := strings.ToLower(strings.TrimSpace(input.UserEmail))
	comment := strings.TrimSpace(input.Comment)

	if input.ProductID == 0 || name == "" || email == "" || comment == "" || input.Rating == 0 {
		return nil, ErrMissingFields
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	// Limits are in characters, not bytes; multibyte names must not be
	// penalized.
	if utf8.RuneCountInString(name) > maxReviewerNameLen {
		return nil, ErrNameTooLong
	}
	if utf8.RuneCountInString(comment) > maxCommentLen {
		return nil, ErrCommentTooLong
	}

	return &model.Review{
		ProductID:        input.ProductID,
		UserName:         name,
		UserEmail:        email,
		Rating:           input.Rating,
		Comment:          comment,
		RecommendProduct: input.RecommendProduct,
	}, nil
}

// ListByProduct returns the approved reviews shown on a product page,
// newest first, capped at the public limit.
func (s *reviewService) ListByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByProduct(ctx, productID, true, repository.PublicReviewLimit)
}

// ProductStats computes the average rating and count over approved reviews.
// The mean is rounded to one decimal, half away from zero. Zero approved
// reviews is a valid result, not an error, and storage failures are logged
// and reported the same way: {0, 0}.
func (s *reviewService) ProductStats(ctx context.Context, productID uint) model.RatingStats {
	if cached, ok := redis.GetCachedReviewStats(ctx, productID); ok {
		return *cached
	}

	stats, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		logger.Error("Failed to aggregate review stats", err, map[string]interface{}{
			"product_id": productID,
		})
		return model.RatingStats{}
	}

	if stats.ReviewCount == 0 {
		return model.RatingStats{}
	}

	stats.AverageRating = math.Round(stats.AverageRating*10) / 10

	redis.CacheReviewStats(ctx, productID, stats)
	return stats
}

func (s *reviewService) Like(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.reviewRepo.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Report(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.reviewRepo.IncrementReports(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// PendingReviews lists reviews awaiting moderation with their product
// context, newest first.
func (s *reviewService) PendingReviews(ctx context.Context) ([]model.Review, error) {
	return s.reviewRepo.FindPending(ctx, repository.PendingReviewLimit)
}

// Approve makes a review publicly visible. Idempotent: approving an
// already-approved review succeeds with the same observable result.
func (s *reviewService) Approve(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.reviewRepo.SetApproved(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	logger.Info("Review approved", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": review.ProductID,
	})

	redis.InvalidateReviewStats(ctx, review.ProductID)
	return review, nil
}

// Delete removes a review permanently, whatever its moderation state.
func (s *reviewService) Delete(ctx context.Context, id uint) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":  id,
		"product_id": review.ProductID,
	})

	redis.InvalidateReviewStats(ctx, review.ProductID)
	return nil
}

// ExportXLSX renders every review into a spreadsheet for offline
// moderation audits.
func (s *reviewService) ExportXLSX(ctx context.Context) ([]byte, error) {
	reviews, err := s.reviewRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reviews"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Product", "Reviewer", "Email", "Rating", "Comment", "Recommends", "Likes", "Reports", "Status", "Created"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, review := range reviews {
		productTitle := ""
		if review.Product != nil {
			productTitle = review.Product.Title
		}
		status := "pending"
		if review.IsApproved {
			status = "approved"
		}

		values := []interface{}{
			review.ID,
			productTitle,
			review.UserName,
			review.UserEmail,
			review.Rating,
			review.Comment,
			review.RecommendProduct,
			review.Likes,
			review.Reports,
			status,
			review.CreatedAt.Format(time.RFC3339),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render review export: %w", err)
	}

	logger.Info("Review export generated", map[string]interface{}{
		"review_count": len(reviews),
	})
	return buf.Bytes(), nil
}
