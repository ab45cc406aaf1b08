package service

import (
	"time"

	"gorm.io/gorm"

	"bookrental/internal/config"
	"bookrental/internal/logger"
	"bookrental/internal/middleware/auth"
	"bookrental/internal/microservices/http-api/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testHasherParams = auth.Params{N: 1 << 10, R: 8, P: 1, KeyLen: auth.KeyLen, MaxMem: 144 * 1024 * 1024}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, SessionTTL: time.Hour}
}

func newTestAuthService(users repository.UserRepository, sessions repository.SessionRepository) *authService {
	return NewAuthService(users, sessions, auth.NewHasher(testHasherParams), testConfig(), logger.Discard()).(*authService)
}

// services wires every service against one database, as the API server does.
type services struct {
	auth   *authService
	books  BookService
	rental *rentalService
}

func newServices(db *gorm.DB) services {
	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	rentals := repository.NewRentalRepository(db)
	return services{
		auth:   newTestAuthService(users, repository.NewSessionRepository(db)),
		books:  NewBookService(books, rentals),
		rental: NewRentalService(rentals, books, logger.Discard()).(*rentalService),
	}
}
