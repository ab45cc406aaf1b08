package service

import "bookrental/internal/apperror"

// Sentinel errors returned by the services. Handlers map them to status
// codes through their apperror kind.
var (
	ErrInvalidCredentials = apperror.Unauthenticated("invalid email or password")
	ErrUnauthenticated    = apperror.Unauthenticated("login required")
	ErrInvalidToken       = apperror.Unauthenticated("invalid or expired session")

	ErrForbidden         = apperror.Forbidden("administrator privileges required")
	ErrAdminCannotBorrow = apperror.Forbidden("administrators cannot rent or return books")

	ErrBookNotFound   = apperror.NotFound("book not found")
	ErrRentalNotFound = apperror.NotFound("rental not found")

	ErrEmailInUse        = apperror.Conflict("email already in use")
	ErrBookAlreadyRented = apperror.Conflict("book is already rented")

	ErrInvalidPage = apperror.Validation("page must be a positive integer")
)
