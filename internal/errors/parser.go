package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// Covers Postgres ("duplicate key value violates unique constraint") and
// the sqlite test store ("UNIQUE constraint failed").
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// ParseError converts storage-layer errors into a code plus a message safe
// to show to callers. context names the entity being operated on so the
// generic cases read sensibly ("review", "product", "user").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: notFoundMessage(context)}
	}

	errStr := strings.ToLower(err.Error())

	// Unique constraint violation (Postgres 23505, sqlite)
	if IsDuplicateKey(err) {
		if strings.Contains(errStr, "idx_reviews_product_email") || strings.Contains(errStr, "reviews.") {
			return ErrorInfo{Code: ReviewAlreadyExists, Message: "You have already reviewed this product"}
		}
		if strings.Contains(errStr, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already exists"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}

	// Foreign key violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		if strings.Contains(errStr, "product_id") {
			return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
		}
		return ErrorInfo{Code: ResourceConflict, Message: "Operation conflicts with related data"}
	}

	// Not-null violation (23502)
	if strings.Contains(errStr, "not-null constraint") || strings.Contains(errStr, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// Check constraint violation (23514)
	if strings.Contains(errStr, "check constraint") {
		if strings.Contains(errStr, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	// Connectivity problems surface as a generic storage failure.
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "Storage temporarily unavailable, please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
}

func notFoundCode(context string) string {
	switch strings.ToLower(context) {
	case "review", "comment":
		return ReviewNotFound
	case "product":
		return ProductNotFound
	case "user":
		return UserNotFound
	}
	return ResourceNotFound
}

func notFoundMessage(context string) string {
	switch strings.ToLower(context) {
	case "review", "comment":
		return "Comment not found"
	case "product":
		return "Product not found"
	case "user":
		return "User not found"
	}
	return "Requested resource not found"
}
