package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lederhaus/lederhaus-backend/internal/app/service"
	apperrors "github.com/lederhaus/lederhaus-backend/internal/errors"
	"github.com/lederhaus/lederhaus-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type createReviewRequest struct {
	ProductID        uint   `json:"productId" binding:"required"`
	UserName         string `json:"userName" binding:"required"`
	UserEmail        string `json:"userEmail" binding:"required"`
	Rating           int    `json:"rating" binding:"required,min=1,max=5"`
	Comment          string `json:"comment" binding:"required"`
	RecommendProduct bool   `json:"recommendProduct"`
}

// validationCode maps a submission error to its error code. Unknown errors
// fall through to the storage path.
func validationCode(err error) (string, string, bool) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return apperrors.ValidationRequired, err.Error(), true
	case errors.Is(err, service.ErrInvalidRating):
		return apperrors.ReviewInvalidRating, err.Error(), true
	case errors.Is(err, service.ErrInvalidEmail):
		return apperrors.ValidationInvalidEmail, err.Error(), true
	case errors.Is(err, service.ErrNameTooLong), errors.Is(err, service.ErrCommentTooLong):
		return apperrors.ReviewTooLong, err.Error(), true
	}
	return "", "", false
}

// CreateComment handles review submission for a product.
func (ctrl *ReviewController) CreateComment(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "All fields are required")
		return
	}

	review, err := ctrl.reviewService.Submit(c.Request.Context(), service.SubmitReviewInput{
		ProductID:        req.ProductID,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		Rating:           req.Rating,
		Comment:          req.Comment,
		RecommendProduct: req.RecommendProduct,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateReview) {
			apperrors.BadRequest(c, apperrors.ReviewAlreadyExists, "You have already reviewed this product")
			return
		}
		if code, msg, ok := validationCode(err); ok {
			apperrors.BadRequest(c, code, msg)
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to submit review", err)

		// Submitting against a product id that does not exist trips the
		// foreign key; report that as a 404 rather than a server fault.
		info := apperrors.ParseError(err, "comment")
		if info.Code == apperrors.ProductNotFound {
			apperrors.NotFound(c, info.Code, info.Message)
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted and pending approval",
		"comment": review,
	})
}

// GetComments lists the approved reviews for a product.
func (ctrl *ReviewController) GetComments(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("productId"), 10, 32)
	if err != nil || productID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	reviews, err := ctrl.reviewService.ListByProduct(c.Request.Context(), uint(productID))
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetProductStats returns the approved-review rating aggregate for a product.
// Always 200: no reviews and backend trouble both read as an empty aggregate.
func (ctrl *ReviewController) GetProductStats(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil || productID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	stats := ctrl.reviewService.ProductStats(c.Request.Context(), uint(productID))
	c.JSON(http.StatusOK, stats)
}

// LikeComment increments the like counter on a review.
func (ctrl *ReviewController) LikeComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid comment ID")
		return
	}

	review, err := ctrl.reviewService.Like(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Comment not found")
			return
		}
		apperrors.InternalError(c, "Failed to like comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment liked",
		"likes":   review.Likes,
	})
}

// ReportComment increments the report counter on a review.
func (ctrl *ReviewController) ReportComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid comment ID")
		return
	}

	review, err := ctrl.reviewService.Report(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Comment not found")
			return
		}
		apperrors.InternalError(c, "Failed to report comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment reported",
		"reports": review.Reports,
	})
}

// GetPendingComments lists reviews awaiting moderation. Admin only.
func (ctrl *ReviewController) GetPendingComments(c *gin.Context) {
	reviews, err := ctrl.reviewService.PendingReviews(c.Request.Context())
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch pending comments")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// ApproveComment makes a review publicly visible. Admin only.
func (ctrl *ReviewController) ApproveComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid comment ID")
		return
	}

	review, err := ctrl.reviewService.Approve(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Comment not found")
			return
		}
		apperrors.InternalError(c, "Failed to approve comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment approved",
		"comment": review,
	})
}

// DeleteComment removes a review permanently. Admin only.
func (ctrl *ReviewController) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid comment ID")
		return
	}

	if err := ctrl.reviewService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Comment not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}

// ExportComments streams an xlsx dump of every review. Admin only.
func (ctrl *ReviewController) ExportComments(c *gin.Context) {
	data, err := ctrl.reviewService.ExportXLSX(c.Request.Context())
	if err != nil {
		apperrors.InternalError(c, "Failed to export comments")
		return
	}

	filename := fmt.Sprintf("reviews-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
