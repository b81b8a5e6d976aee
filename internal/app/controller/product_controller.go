package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lederhaus/lederhaus-backend/internal/app/service"
	apperrors "github.com/lederhaus/lederhaus-backend/internal/errors"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	ActualPrice float64  `json:"actualPrice" binding:"required,gt=0"`
	OfferPrice  float64  `json:"offerPrice"`
	Images      []string `json:"images"`
	Category    string   `json:"category" binding:"required"`
}

func (r productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		ActualPrice: r.ActualPrice,
		OfferPrice:  r.OfferPrice,
		Images:      r.Images,
		Category:    r.Category,
	}
}

func respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrInvalidCategory):
		apperrors.BadRequest(c, apperrors.ProductInvalidCategory, "Category must be Jackets, Wallets or Belts")
	case errors.Is(err, service.ErrInvalidProductData):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	default:
		apperrors.InternalError(c, fallback)
	}
}

// ListProducts returns the public catalog, newest first.
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.productService.List()
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product.
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetByID(uint(id))
	if err != nil {
		respondProductError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a catalog entry. Admin only.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Title, actual price and category are required")
		return
	}

	product, err := ctrl.productService.Create(req.toInput())
	if err != nil {
		respondProductError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ActualPrice *float64 `json:"actualPrice"`
	OfferPrice  *float64 `json:"offerPrice"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
}

// UpdateProduct applies a partial update; omitted fields are untouched and
// a provided images array replaces the whole list. Admin only.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	product, err := ctrl.productService.Update(uint(id), service.ProductUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		ActualPrice: req.ActualPrice,
		OfferPrice:  req.OfferPrice,
		Images:      req.Images,
		Category:    req.Category,
	})
	if err != nil {
		respondProductError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog. Admin only.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(uint(id)); err != nil {
		respondProductError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
