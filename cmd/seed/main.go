package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lederhaus/lederhaus-backend/config"
	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/internal/app/repository"
	"github.com/lederhaus/lederhaus-backend/internal/db"
	"github.com/lederhaus/lederhaus-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the initial admin account and, when an xlsx path is given, bulk
// imports the product catalog from it.
//
//	go run cmd/seed/main.go [catalog.xlsx]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := seedAdminUser(); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("No catalog file given, skipping product import.")
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading catalog file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped %d invalid rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	if err := productRepo.BulkCreate(products, 100); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Printf("Import completed, %d products created.\n", len(products))
}

func seedAdminUser() error {
	email := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	if _, err := userRepo.FindByEmail(email); err == nil {
		fmt.Printf("Admin user %s already exists, skipping.\n", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Admin user %s created.\n", email)
	return nil
}

// readProductsFromXLSX expects columns: title, description, actual price,
// offer price, category, image URLs (comma separated). The first row is the
// header.
func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		title := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		actualPrice, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || title == "" || actualPrice <= 0 {
			skipped++
			continue
		}

		offerPrice := 0.0
		if v := strings.TrimSpace(row[3]); v != "" {
			offerPrice, err = strconv.ParseFloat(v, 64)
			if err != nil {
				skipped++
				continue
			}
		}

		category := model.ProductCategory(strings.TrimSpace(row[4]))
		if !model.ValidCategory(category) {
			skipped++
			continue
		}

		var images []string
		if len(row) > 5 {
			for _, u := range strings.Split(row[5], ",") {
				if trimmed := strings.TrimSpace(u); trimmed != "" {
					images = append(images, trimmed)
				}
			}
		}

		products = append(products, model.Product{
			Title:       title,
			Description: description,
			ActualPrice: actualPrice,
			OfferPrice:  offerPrice,
			Images:      images,
			Category:    category,
		})
	}

	return products, skipped, nil
}
