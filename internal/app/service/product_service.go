package service

import (
	"errors"
	"strings"

	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/internal/app/repository"
	"github.com/lederhaus/lederhaus-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidCategory    = errors.New("invalid product category")
	ErrInvalidProductData = errors.New("title, actual price and category are required")
)

// ProductInput carries the fields an admin may set on a product.
type ProductInput struct {
	Title       string
	Description string
	ActualPrice float64
	OfferPrice  float64
	Images      []string
	Category    string
}

// ProductUpdateInput carries a partial update; nil fields keep their
// current value. A non-nil Images slice replaces the whole list.
type ProductUpdateInput struct {
	Title       *string
	Description *string
	ActualPrice *float64
	OfferPrice  *float64
	Images      []string
	Category    *string
}

type ProductService interface {
	Create(input ProductInput) (*model.Product, error)
	List() ([]model.Product, error)
	GetByID(id uint) (*model.Product, error)
	Update(id uint, input ProductUpdateInput) (*model.Product, error)
	Delete(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func validateProductInput(input *ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if input.Title == "" || input.ActualPrice <= 0 || input.Category == "" {
		return ErrInvalidProductData
	}
	if !model.ValidCategory(model.ProductCategory(input.Category)) {
		return ErrInvalidCategory
	}
	return nil
}

func (s *productService) Create(input ProductInput) (*model.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product := &model.Product{
		Title:       input.Title,
		Description: input.Description,
		ActualPrice: input.ActualPrice,
		OfferPrice:  input.OfferPrice,
		Images:      input.Images,
		Category:    model.ProductCategory(input.Category),
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return product, nil
}

func (s *productService) List() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(id uint, input ProductUpdateInput) (*model.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidProductData
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.ActualPrice != nil {
		if *input.ActualPrice <= 0 {
			return nil, ErrInvalidProductData
		}
		product.ActualPrice = *input.ActualPrice
	}
	if input.OfferPrice != nil {
		product.OfferPrice = *input.OfferPrice
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Category != nil {
		if !model.ValidCategory(model.ProductCategory(*input.Category)) {
			return nil, ErrInvalidCategory
		}
		product.Category = model.ProductCategory(*input.Category)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
