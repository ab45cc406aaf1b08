package repository

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns one page of books in insertion order plus the total count.
func (r *bookRepository) List(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	// Past the last page: answer without computing an offset that could overflow.
	if int64(page-1) >= (total+int64(pageSize)-1)/int64(pageSize) {
		return []models.Book{}, total, nil
	}
	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return list, total, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM populates book.ID and timestamps
	return nil
}

// Update replaces every catalog field of an existing book. A missing id
// yields gorm.ErrRecordNotFound rather than an insert.
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", book.ID).
		Select("isbn13", "title", "author", "publish_date", "updated_at").
		Updates(book)
	if result.Error != nil {
		return fmt.Errorf("update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
