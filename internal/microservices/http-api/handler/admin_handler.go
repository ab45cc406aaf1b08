package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/microservices/http-api/dto"
	"bookrental/internal/microservices/http-api/service"
)

// AdminHandler serves the catalog and rental oversight endpoints. The
// group it is mounted on must already pass middleware.RequireAdmin.
type AdminHandler struct {
	bookService   service.BookService
	rentalService service.RentalService
	now           func() time.Time
}

func NewAdminHandler(bookService service.BookService, rentalService service.RentalService) *AdminHandler {
	return &AdminHandler{bookService: bookService, rentalService: rentalService, now: time.Now}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/book/create", h.CreateBook)
	rg.PUT("/book/update", h.UpdateBook)
	rg.GET("/rental/current", h.CurrentRentals)
}

func (h *AdminHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.bookService.Create(ctx, toBookInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(book))
}

func (h *AdminHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.bookService.Update(ctx, req.BookID, toBookInput(req.CreateBookRequest))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// CurrentRentals lists every open rental with its borrower.
func (h *AdminHandler) CurrentRentals(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rentals, err := h.rentalService.AllCurrent(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	items := make([]dto.AdminRental, 0, len(rentals))
	for _, r := range rentals {
		item := dto.AdminRental{
			RentalID:       r.ID,
			BookID:         r.BookID,
			UserID:         r.UserID,
			RentalDate:     r.RentalDate,
			ReturnDeadline: r.ReturnDeadline,
			Overdue:        now.After(r.ReturnDeadline),
		}
		if r.Book != nil {
			item.BookName = r.Book.Title
		}
		if r.User != nil {
			item.UserName = r.User.Name
			item.UserEmail = r.User.Email
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, dto.AdminRentalsResponse{Rentals: items})
}

func toBookInput(req dto.CreateBookRequest) service.BookInput {
	return service.BookInput{
		ISBN13:      req.ISBN13,
		Title:       req.Title,
		Author:      req.Author,
		PublishDate: req.PublishDate,
	}
}
