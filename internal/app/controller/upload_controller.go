package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lederhaus/lederhaus-backend/internal/errors"
	"github.com/lederhaus/lederhaus-backend/internal/middleware"
	"github.com/lederhaus/lederhaus-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// GenerateUploadURL issues a presigned PUT URL for a product image. The
// client uploads directly to S3; the API never proxies image bytes.
func (ctrl *UploadController) GenerateUploadURL(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename, content type and size are required")
		return
	}

	if err := storage.ValidateImageType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
		return
	}
	if err := storage.ValidateImageSize(req.Size); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Images cannot exceed 3 MiB")
		return
	}

	resp, err := ctrl.storage.GenerateImageUploadURL(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to generate upload URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, resp)
}
