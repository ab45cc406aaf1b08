package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/repository"
	"bookrental/internal/validation"
)

// PageSize is the fixed number of books per catalog page.
const PageSize = 10

const publishDateLayout = "2006-01-02"

// BookInput carries every catalog field; create and update both replace
// the full record.
type BookInput struct {
	ISBN13      string `json:"isbn13" validate:"required,isbn13"`
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	PublishDate string `json:"publishDate" validate:"required,datetime=2006-01-02"`
}

// RentalInfo describes who currently holds a book.
type RentalInfo struct {
	UserName       string
	RentalDate     time.Time
	ReturnDeadline time.Time
}

// BookDetail is a book plus its open rental, if any.
type BookDetail struct {
	Book       models.Book
	RentalInfo *RentalInfo
}

type BookService interface {
	List(ctx context.Context, page int) ([]models.Book, int, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Detail(ctx context.Context, id int64) (*BookDetail, error)
	Create(ctx context.Context, in BookInput) (*models.Book, error)
	Update(ctx context.Context, id int64, in BookInput) (*models.Book, error)
}

type bookService struct {
	bookRepo   repository.BookRepository
	rentalRepo repository.RentalRepository
	validator  *validation.Validator
}

func NewBookService(bookRepo repository.BookRepository, rentalRepo repository.RentalRepository) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		rentalRepo: rentalRepo,
		validator:  validation.New(),
	}
}

// List returns page (1-indexed) of the catalog and the number of pages.
func (s *bookService) List(ctx context.Context, page int) ([]models.Book, int, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}

	books, total, err := s.bookRepo.List(ctx, page, PageSize)
	if err != nil {
		return nil, 0, err
	}
	maxPage := int((total + PageSize - 1) / PageSize)
	return books, maxPage, nil
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Detail(ctx context.Context, id int64) (*BookDetail, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{Book: *book}
	rental, err := s.rentalRepo.FindOpenByBook(ctx, id)
	switch {
	case err == nil:
		info := &RentalInfo{RentalDate: rental.RentalDate, ReturnDeadline: rental.ReturnDeadline}
		if rental.User != nil {
			info.UserName = rental.User.Name
		}
		detail.RentalInfo = info
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return detail, nil
}

func (s *bookService) Create(ctx context.Context, in BookInput) (*models.Book, error) {
	book, err := s.toModel(in)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) Update(ctx context.Context, id int64, in BookInput) (*models.Book, error) {
	book, err := s.toModel(in)
	if err != nil {
		return nil, err
	}
	book.ID = id
	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *bookService) toModel(in BookInput) (*models.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	// validated above, cannot fail
	published, _ := time.Parse(publishDateLayout, in.PublishDate)

	return &models.Book{
		ISBN13:      normalizeISBN(in.ISBN13),
		Title:       in.Title,
		Author:      in.Author,
		PublishDate: published,
	}, nil
}

// normalizeISBN drops the hyphens and spaces isbn13 validation tolerates.
func normalizeISBN(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}
