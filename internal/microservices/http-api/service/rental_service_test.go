package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookrental/database/dbtest"
	"bookrental/internal/apperror"
	"bookrental/internal/logger"
	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/repository"
)

func register(t *testing.T, svc services, email string) Principal {
	t.Helper()
	u, err := svc.auth.Register(context.Background(), RegisterInput{Email: email, Name: email, Password: "pw"})
	require.NoError(t, err)
	return Principal{ID: u.ID, Email: u.Email}
}

func addBook(t *testing.T, svc services, title string) *models.Book {
	t.Helper()
	b, err := svc.books.Create(context.Background(), validBookInput(title))
	require.NoError(t, err)
	return b
}

func TestRentalService_StartSetsDeadline(t *testing.T) {
	svc := newServices(dbtest.Open(t))
	fixed := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	svc.rental.now = func() time.Time { return fixed }

	reader := register(t, svc, "r@example.com")
	book := addBook(t, svc, "B")

	rental, err := svc.rental.Start(context.Background(), StartRentalInput{BookID: book.ID, Borrower: reader})
	require.NoError(t, err)
	assert.Equal(t, book.ID, rental.BookID)
	assert.Equal(t, reader.ID, rental.UserID)
	assert.True(t, rental.RentalDate.Equal(fixed))
	assert.True(t, rental.ReturnDeadline.Equal(fixed.AddDate(0, 0, 7)))
	assert.Nil(t, rental.ReturnDate)
}

func TestRentalService_StartRejections(t *testing.T) {
	db := dbtest.Open(t)
	svc := newServices(db)
	ctx := context.Background()

	reader := register(t, svc, "r@example.com")
	other := register(t, svc, "o@example.com")
	book := addBook(t, svc, "B")

	t.Run("Admin", func(t *testing.T) {
		admin := Principal{ID: reader.ID, IsAdmin: true}
		_, err := svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: admin})
		assert.ErrorIs(t, err, ErrAdminCannotBorrow)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("MissingBook", func(t *testing.T) {
		_, err := svc.rental.Start(ctx, StartRentalInput{BookID: 999, Borrower: reader})
		assert.ErrorIs(t, err, ErrBookNotFound)

		var count int64
		require.NoError(t, db.Model(&models.Rental{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("AlreadyRented", func(t *testing.T) {
		_, err := svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: reader})
		require.NoError(t, err)

		_, err = svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: other})
		assert.ErrorIs(t, err, ErrBookAlreadyRented)

		_, err = svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: reader})
		assert.ErrorIs(t, err, ErrBookAlreadyRented)
	})
}

// A start that passes the open-rental check but loses the insert to the
// unique index still reports a conflict.
func TestRentalService_StartLostRace(t *testing.T) {
	books := new(MockBookRepository)
	rentals := new(MockRentalRepository)
	svc := NewRentalService(rentals, books, logger.Discard())
	ctx := context.Background()

	books.On("GetByID", ctx, int64(1)).Return(&models.Book{ID: 1}, nil)
	rentals.On("FindOpenByBook", ctx, int64(1)).Return(nil, gorm.ErrRecordNotFound)
	rentals.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Start(ctx, StartRentalInput{BookID: 1, Borrower: Principal{ID: 2}})
	assert.ErrorIs(t, err, ErrBookAlreadyRented)
}

func TestRentalService_ConcurrentStart(t *testing.T) {
	svc := newServices(dbtest.Open(t))
	ctx := context.Background()
	book := addBook(t, svc, "Hot")

	const n = 8
	borrowers := make([]Principal, n)
	for i := range borrowers {
		borrowers[i] = register(t, svc, fmt.Sprintf("u%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: borrowers[i]})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrBookAlreadyRented)
	}
	assert.Equal(t, 1, successes)

	all, err := svc.rental.AllCurrent(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRentalService_Return(t *testing.T) {
	db := dbtest.Open(t)
	svc := newServices(db)
	ctx := context.Background()

	owner := register(t, svc, "owner@example.com")
	stranger := register(t, svc, "stranger@example.com")
	book := addBook(t, svc, "B")

	rental, err := svc.rental.Start(ctx, StartRentalInput{BookID: book.ID, Borrower: owner})
	require.NoError(t, err)

	t.Run("ByOtherUser", func(t *testing.T) {
		err := svc.rental.Return(ctx, ReturnRentalInput{RentalID: rental.ID, Borrower: stranger})
		assert.ErrorIs(t, err, ErrRentalNotFound)

		var stored models.Rental
		require.NoError(t, db.First(&stored, rental.ID).Error)
		assert.Nil(t, stored.ReturnDate)
	})

	t.Run("ByAdmin", func(t *testing.T) {
		err := svc.rental.Return(ctx, ReturnRentalInput{RentalID: rental.ID, Borrower: Principal{ID: owner.ID, IsAdmin: true}})
		assert.ErrorIs(t, err, ErrAdminCannotBorrow)
	})

	t.Run("Twice", func(t *testing.T) {
		first := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
		svc.rental.now = func() time.Time { return first }
		require.NoError(t, svc.rental.Return(ctx, ReturnRentalInput{RentalID: rental.ID, Borrower: owner}))

		svc.rental.now = func() time.Time { return first.Add(time.Hour) }
		err := svc.rental.Return(ctx, ReturnRentalInput{RentalID: rental.ID, Borrower: owner})
		assert.ErrorIs(t, err, ErrRentalNotFound)

		var stored models.Rental
		require.NoError(t, db.First(&stored, rental.ID).Error)
		require.NotNil(t, stored.ReturnDate)
		assert.True(t, stored.ReturnDate.Equal(first))
	})

	t.Run("Missing", func(t *testing.T) {
		err := svc.rental.Return(ctx, ReturnRentalInput{RentalID: 12345, Borrower: owner})
		assert.ErrorIs(t, err, ErrRentalNotFound)
	})
}

func TestRentalService_ReturnStoreError(t *testing.T) {
	rentals := new(MockRentalRepository)
	svc := NewRentalService(rentals, new(MockBookRepository), logger.Discard())
	ctx := context.Background()

	rentals.On("MarkReturned", ctx, int64(1), int64(2), mock.AnythingOfType("time.Time")).Return(errors.New("boom"))

	err := svc.Return(ctx, ReturnRentalInput{RentalID: 1, Borrower: Principal{ID: 2}})
	assert.EqualError(t, err, "boom")
}

// register A, login A, A rents book 7, B is refused, A returns, A has no
// current rentals and one history entry for book 7.
func TestRentalScenario(t *testing.T) {
	svc := newServices(dbtest.Open(t))
	ctx := context.Background()

	var book7 *models.Book
	for i := 1; i <= 7; i++ {
		book7 = addBook(t, svc, fmt.Sprintf("Book %d", i))
	}
	require.Equal(t, int64(7), book7.ID)

	_, err := svc.auth.Register(ctx, RegisterInput{Email: "a@example.com", Name: "A", Password: "pa"})
	require.NoError(t, err)
	b := register(t, svc, "b@example.com")

	token, a, err := svc.auth.Login(ctx, "a@example.com", "pa")
	require.NoError(t, err)
	fromToken, err := svc.auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, *a, *fromToken)

	rental, err := svc.rental.Start(ctx, StartRentalInput{BookID: 7, Borrower: *fromToken})
	require.NoError(t, err)

	_, err = svc.rental.Start(ctx, StartRentalInput{BookID: 7, Borrower: b})
	assert.ErrorIs(t, err, ErrBookAlreadyRented)

	require.NoError(t, svc.rental.Return(ctx, ReturnRentalInput{RentalID: rental.ID, Borrower: *a}))

	current, err := svc.rental.Current(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, current)

	history, err := svc.rental.History(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(7), history[0].BookID)
	require.NotNil(t, history[0].Book)
	assert.Equal(t, "Book 7", history[0].Book.Title)
}

func TestRegister_Concurrent(t *testing.T) {
	db := dbtest.Open(t)
	svc := newServices(db)
	ctx := context.Background()

	const n = 6
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.auth.Register(ctx, RegisterInput{Email: "same@example.com", Name: "S", Password: "pw"})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailInUse)
	}
	assert.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "same@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
