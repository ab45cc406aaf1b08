package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookrental/internal/microservices/http-api/repository"
)

// AdminGate authorizes administrative operations against the current user
// row rather than the admin flag cached in the session token.
type AdminGate interface {
	RequireAdmin(ctx context.Context, p *Principal) error
}

type adminGate struct {
	userRepo repository.UserRepository
}

func NewAdminGate(userRepo repository.UserRepository) AdminGate {
	return &adminGate{userRepo: userRepo}
}

func (g *adminGate) RequireAdmin(ctx context.Context, p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}

	user, err := g.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}
