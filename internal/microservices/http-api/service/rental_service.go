package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/repository"
)

type StartRentalInput struct {
	BookID   int64
	Borrower Principal
}

type ReturnRentalInput struct {
	RentalID int64
	Borrower Principal
}

type RentalService interface {
	Start(ctx context.Context, in StartRentalInput) (*models.Rental, error)
	Return(ctx context.Context, in ReturnRentalInput) error
	Current(ctx context.Context, userID int64) ([]models.Rental, error)
	History(ctx context.Context, userID int64) ([]models.Rental, error)
	AllCurrent(ctx context.Context) ([]models.Rental, error)
}

type rentalService struct {
	rentalRepo repository.RentalRepository
	bookRepo   repository.BookRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	bookRepo repository.BookRepository,
	logger *slog.Logger,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		bookRepo:   bookRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// timestamp is the current time at the precision PostgreSQL stores.
func (s *rentalService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Start lends a book to the borrower. The open-rental check gives a clear
// error up front, but the partial unique index is what keeps concurrent
// starts on one book down to a single winner.
func (s *rentalService) Start(ctx context.Context, in StartRentalInput) (*models.Rental, error) {
	if in.Borrower.IsAdmin {
		return nil, ErrAdminCannotBorrow
	}

	if _, err := s.bookRepo.GetByID(ctx, in.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if _, err := s.rentalRepo.FindOpenByBook(ctx, in.BookID); err == nil {
		return nil, ErrBookAlreadyRented
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.timestamp()
	rental := &models.Rental{
		BookID:         in.BookID,
		UserID:         in.Borrower.ID,
		RentalDate:     now,
		ReturnDeadline: now.Add(models.LoanPeriod),
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBookAlreadyRented
		}
		return nil, err
	}

	s.logger.Info("rental_started",
		"rental_id", rental.ID,
		"book_id", rental.BookID,
		"user_id", rental.UserID,
	)
	return rental, nil
}

// Return closes the borrower's open rental. Missing, foreign and already
// returned rentals are indistinguishable to the caller.
func (s *rentalService) Return(ctx context.Context, in ReturnRentalInput) error {
	if in.Borrower.IsAdmin {
		return ErrAdminCannotBorrow
	}

	if err := s.rentalRepo.MarkReturned(ctx, in.RentalID, in.Borrower.ID, s.timestamp()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRentalNotFound
		}
		return err
	}

	s.logger.Info("rental_returned", "rental_id", in.RentalID, "user_id", in.Borrower.ID)
	return nil
}

func (s *rentalService) Current(ctx context.Context, userID int64) ([]models.Rental, error) {
	return s.rentalRepo.ListOpenByUser(ctx, userID)
}

func (s *rentalService) History(ctx context.Context, userID int64) ([]models.Rental, error) {
	return s.rentalRepo.ListClosedByUser(ctx, userID)
}

func (s *rentalService) AllCurrent(ctx context.Context) ([]models.Rental, error) {
	return s.rentalRepo.ListOpen(ctx)
}
