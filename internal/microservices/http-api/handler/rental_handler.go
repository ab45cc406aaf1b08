package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/microservices/http-api/dto"
	"bookrental/internal/microservices/http-api/middleware"
	"bookrental/internal/microservices/http-api/service"
)

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// RegisterRoutes mounts /rental for signed-in borrowers only.
func (h *RentalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.NonAdmin())
	rg.POST("/start", h.Start)
	rg.PUT("/return", h.Return)
	rg.GET("/current", h.Current)
	rg.GET("/history", h.History)
}

func (h *RentalHandler) Start(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req dto.StartRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rental, err := h.rentalService.Start(ctx, service.StartRentalInput{BookID: req.BookID, Borrower: *principal})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StartRentalResponse{
		ID:             rental.ID,
		BookID:         rental.BookID,
		RentalDate:     rental.RentalDate,
		ReturnDeadline: rental.ReturnDeadline,
	})
}

func (h *RentalHandler) Return(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req dto.ReturnRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.rentalService.Return(ctx, service.ReturnRentalInput{RentalID: req.RentalID, Borrower: *principal}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReturnRentalResponse{Result: "OK"})
}

func (h *RentalHandler) Current(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rentals, err := h.rentalService.Current(ctx, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.CurrentRental, 0, len(rentals))
	for _, r := range rentals {
		item := dto.CurrentRental{
			RentalID:       r.ID,
			BookID:         r.BookID,
			RentalDate:     r.RentalDate,
			ReturnDeadline: r.ReturnDeadline,
		}
		if r.Book != nil {
			item.BookName = r.Book.Title
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, dto.CurrentRentalsResponse{RentalBooks: items})
}

func (h *RentalHandler) History(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rentals, err := h.rentalService.History(ctx, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.RentalHistoryEntry, 0, len(rentals))
	for _, r := range rentals {
		item := dto.RentalHistoryEntry{
			RentalID:   r.ID,
			BookID:     r.BookID,
			RentalDate: r.RentalDate,
		}
		if r.ReturnDate != nil {
			item.ReturnDate = *r.ReturnDate
		}
		if r.Book != nil {
			item.BookName = r.Book.Title
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, dto.RentalHistoryResponse{RentalHistory: items})
}
