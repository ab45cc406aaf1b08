package repository

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *models.Rental) error
	FindOpenByBook(ctx context.Context, bookID int64) (*models.Rental, error)
	MarkReturned(ctx context.Context, rentalID, userID int64, at time.Time) error
	ListOpenByUser(ctx context.Context, userID int64) ([]models.Rental, error)
	ListClosedByUser(ctx context.Context, userID int64) ([]models.Rental, error)
	ListOpen(ctx context.Context) ([]models.Rental, error)
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

// Create inserts a rental. If the book already has an open rental the
// partial unique index rejects the row and ErrDuplicate is returned.
func (r *rentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	if err := r.db.WithContext(ctx).Create(rental).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create rental: %w", err)
	}
	return nil
}

// FindOpenByBook returns the unreturned rental of a book with its borrower.
func (r *rentalRepository) FindOpenByBook(ctx context.Context, bookID int64) (*models.Rental, error) {
	var rental models.Rental
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ? AND return_date IS NULL", bookID).
		First(&rental).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// MarkReturned closes an open rental owned by userID in one conditional
// update. Not found, owned by someone else and already returned all come
// back as gorm.ErrRecordNotFound with nothing changed.
func (r *rentalRepository) MarkReturned(ctx context.Context, rentalID, userID int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ? AND user_id = ? AND return_date IS NULL", rentalID, userID).
		Update("return_date", at)
	if result.Error != nil {
		return fmt.Errorf("return rental: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rentalRepository) ListOpenByUser(ctx context.Context, userID int64) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND return_date IS NULL", userID).
		Order("rental_date asc, id asc").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("list current rentals: %w", err)
	}
	return rentals, nil
}

// ListClosedByUser returns returned rentals, most recently returned first.
func (r *rentalRepository) ListClosedByUser(ctx context.Context, userID int64) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND return_date IS NOT NULL", userID).
		Order("return_date desc, id desc").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("list rental history: %w", err)
	}
	return rentals, nil
}

// ListOpen returns every open rental with book and borrower, for admins.
func (r *rentalRepository) ListOpen(ctx context.Context) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("return_date IS NULL").
		Order("return_deadline asc, id asc").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("list open rentals: %w", err)
	}
	return rentals, nil
}
