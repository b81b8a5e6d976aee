package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/internal/app/repository"
	"github.com/lederhaus/lederhaus-backend/internal/app/service"
	"github.com/lederhaus/lederhaus-backend/internal/db"
	"github.com/lederhaus/lederhaus-backend/internal/middleware"
	"github.com/lederhaus/lederhaus-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "review-controller-test-secret"

func setupReviewControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	product := &model.Product{
		Title:       "Weekender Duffel",
		ActualPrice: 280,
		Category:    model.CategoryJackets,
	}
	require.NoError(t, testDB.Create(product).Error)

	reviewRepo := repository.NewReviewRepository(testDB)
	reviewService := service.NewReviewService(reviewRepo)
	reviewController := NewReviewController(reviewService)
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	comments := router.Group("/api/comments")
	{
		comments.GET("", reviewController.GetComments)
		comments.POST("", reviewController.CreateComment)
		comments.GET("/stats/:productId", reviewController.GetProductStats)
		comments.PUT("/:id/like", reviewController.LikeComment)
		comments.PUT("/:id/report", reviewController.ReportComment)

		admin := comments.Group("/admin",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("admin"),
		)
		{
			admin.GET("/pending", reviewController.GetPendingComments)
			admin.GET("/export", reviewController.ExportComments)
			admin.PUT("/:id/approve", reviewController.ApproveComment)
			admin.DELETE("/:id", reviewController.DeleteComment)
		}
	}

	return router, testDB, product
}

func adminToken(t *testing.T) string {
	tokens, err := util.GenerateTokenPair(1, "admin@lederhaus.test", "admin", testJWTSecret, time.Hour, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func submitBody(productID uint, email string) []byte {
	body, _ := json.Marshal(gin.H{
		"productId":        productID,
		"userName":         "Erik",
		"userEmail":        email,
		"rating":           4,
		"comment":          "Sturdy hardware, generous pockets.",
		"recommendProduct": true,
	})
	return body
}

func doJSON(router *gin.Engine, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewController_CreateComment(t *testing.T) {
	router, _, product := setupReviewControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/comments", submitBody(product.ID, "erik@example.com"), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Comment submitted and pending approval", response["message"])

	comment := response["comment"].(map[string]interface{})
	assert.Equal(t, float64(product.ID), comment["productId"])
	assert.Equal(t, false, comment["isApproved"])
	assert.Equal(t, "erik@example.com", comment["userEmail"])
}

func TestReviewController_CreateComment_Duplicate(t *testing.T) {
	router, _, product := setupReviewControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/comments", submitBody(product.ID, "dup@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/comments", submitBody(product.ID, "dup@example.com"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", response["error"])
}

func TestReviewController_CreateComment_Invalid(t *testing.T) {
	router, _, product := setupReviewControllerTest(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{
			name: "missing email",
			body: gin.H{"productId": product.ID, "userName": "x", "rating": 3, "comment": "c"},
		},
		{
			name: "rating out of range",
			body: gin.H{"productId": product.ID, "userName": "x", "userEmail": "x@example.com", "rating": 9, "comment": "c"},
		},
		{
			name: "missing product",
			body: gin.H{"userName": "x", "userEmail": "x@example.com", "rating": 3, "comment": "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			w := doJSON(router, http.MethodPost, "/api/comments", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestReviewController_GetComments(t *testing.T) {
	router, testDB, product := setupReviewControllerTest(t)

	for i, approved := range []bool{true, true, false} {
		require.NoError(t, testDB.Create(&model.Review{
			ProductID:  product.ID,
			UserName:   "Reviewer",
			UserEmail:  fmt.Sprintf("r%d@example.com", i),
			Rating:     5,
			Comment:    "fine",
			IsApproved: approved,
		}).Error)
	}

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/comments?productId=%d", product.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var reviews []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 2)

	// Bad or missing product id
	w = doJSON(router, http.MethodGet, "/api/comments", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/comments?productId=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewController_Stats(t *testing.T) {
	router, testDB, product := setupReviewControllerTest(t)

	for i, rating := range []int{4, 5, 5} {
		require.NoError(t, testDB.Create(&model.Review{
			ProductID:  product.ID,
			UserName:   "Rater",
			UserEmail:  fmt.Sprintf("s%d@example.com", i),
			Rating:     rating,
			Comment:    "ok",
			IsApproved: true,
		}).Error)
	}

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/comments/stats/%d", product.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4.7, stats["averageRating"])
	assert.Equal(t, float64(3), stats["reviewCount"])

	// A product nobody reviewed yet still answers 200 with zeros.
	w = doJSON(router, http.MethodGet, "/api/comments/stats/9999", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(0), stats["averageRating"])
	assert.Equal(t, float64(0), stats["reviewCount"])
}

func TestReviewController_LikeAndReport(t *testing.T) {
	router, testDB, product := setupReviewControllerTest(t)

	review := &model.Review{
		ProductID: product.ID,
		UserName:  "Liked",
		UserEmail: "liked@example.com",
		Rating:    4,
		Comment:   "nice",
	}
	require.NoError(t, testDB.Create(review).Error)

	w := doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d/like", review.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["likes"])

	w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d/report", review.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["reports"])

	w = doJSON(router, http.MethodPut, "/api/comments/9999/like", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPut, "/api/comments/abc/report", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewController_AdminRequiresAuth(t *testing.T) {
	router, _, _ := setupReviewControllerTest(t)

	w := doJSON(router, http.MethodGet, "/api/comments/admin/pending", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A non-admin token is rejected by the role check.
	tokens, err := util.GenerateTokenPair(2, "user@lederhaus.test", "user", testJWTSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	w = doJSON(router, http.MethodGet, "/api/comments/admin/pending", nil, tokens.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewController_ModerationFlow(t *testing.T) {
	router, _, product := setupReviewControllerTest(t)
	token := adminToken(t)

	w := doJSON(router, http.MethodPost, "/api/comments", submitBody(product.ID, "flow@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	reviewID := uint(created["comment"].(map[string]interface{})["id"].(float64))

	// Pending queue shows it, public listing does not.
	w = doJSON(router, http.MethodGet, "/api/comments/admin/pending", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	var pending []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/comments?productId=%d", product.ID), nil, "")
	var public []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	assert.Empty(t, public)

	// Approve, then it flips sides.
	w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/admin/%d/approve", reviewID), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/comments?productId=%d", product.ID), nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	assert.Len(t, public, 1)

	// Approving an unknown id is a 404.
	w = doJSON(router, http.MethodPut, "/api/comments/admin/9999/approve", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Delete removes it for good.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/comments/admin/%d", reviewID), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/comments/admin/%d", reviewID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewController_Export(t *testing.T) {
	router, testDB, product := setupReviewControllerTest(t)
	token := adminToken(t)

	require.NoError(t, testDB.Create(&model.Review{
		ProductID: product.ID,
		UserName:  "Exported",
		UserEmail: "export@example.com",
		Rating:    5,
		Comment:   "great",
	}).Error)

	w := doJSON(router, http.MethodGet, "/api/comments/admin/export", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
