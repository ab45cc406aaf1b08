package repository_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookrental/database"
	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/repository"
)

// PostgresSuite checks the unique-violation mapping and the open rental
// index on PostgreSQL. It needs TEST_DATABASE_URL and runs in a private
// schema that is dropped afterwards.
type PostgresSuite struct {
	suite.Suite
	admin  *gorm.DB
	db     *gorm.DB
	schema string
}

func (s *PostgresSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	cfg := &gorm.Config{TranslateError: true, Logger: gormlogger.Discard}
	admin, err := gorm.Open(postgres.Open(dsn), cfg)
	s.Require().NoError(err)
	s.admin = admin

	s.schema = "test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	s.Require().NoError(admin.Exec(`CREATE SCHEMA "` + s.schema + `"`).Error)

	db, err := gorm.Open(postgres.Open(withSearchPath(dsn, s.schema)), cfg)
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(database.Migrate(db))
}

// withSearchPath adds search_path as a runtime parameter for every pooled
// connection, in either URL or keyword/value form.
func withSearchPath(dsn, schema string) string {
	if !strings.Contains(dsn, "://") {
		return dsn + " search_path=" + schema
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + schema
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		database.Close(s.db)
	}
	if s.admin != nil {
		s.admin.Exec(`DROP SCHEMA IF EXISTS "` + s.schema + `" CASCADE`)
		database.Close(s.admin)
	}
}

func (s *PostgresSuite) TestDuplicateEmail() {
	ctx := context.Background()
	users := repository.NewUserRepository(s.db)
	email := uuid.NewString() + "@example.com"

	s.Require().NoError(users.Create(ctx, &models.User{Email: email, Name: "a", PasswordHash: []byte("h"), Salt: []byte("s")}))
	err := users.Create(ctx, &models.User{Email: email, Name: "b", PasswordHash: []byte("h"), Salt: []byte("s")})
	s.ErrorIs(err, repository.ErrDuplicate)
}

func (s *PostgresSuite) TestOneOpenRentalUnderConcurrency() {
	ctx := context.Background()
	users := repository.NewUserRepository(s.db)
	rentals := repository.NewRentalRepository(s.db)

	book := &models.Book{ISBN13: "9780306406157", Title: "PG", Author: "A", PublishDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.Require().NoError(repository.NewBookRepository(s.db).Create(ctx, book))

	const n = 5
	ids := make([]int64, n)
	for i := range ids {
		u := &models.User{Email: uuid.NewString() + "@example.com", Name: "u", PasswordHash: []byte("h"), Salt: []byte("s")}
		s.Require().NoError(users.Create(ctx, u))
		ids[i] = u.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = rentals.Create(ctx, &models.Rental{BookID: book.ID, UserID: ids[i], RentalDate: now, ReturnDeadline: now.Add(models.LoanPeriod)})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, repository.ErrDuplicate)
	}
	s.Equal(1, ok)
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}
