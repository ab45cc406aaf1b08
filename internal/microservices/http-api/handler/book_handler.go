package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/apperror"
	"bookrental/internal/microservices/http-api/dto"
	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/service"
)

var errInvalidBookID = apperror.Validation("invalid book id")

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// RegisterRoutes mounts /book; the group is expected to require a session.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/list", h.List)
	rg.GET("/detail/:id", h.Detail)
}

// List returns ?page= of the catalog, page 1 when absent.
func (h *BookHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, service.ErrInvalidPage)
			return
		}
		page = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, maxPage, err := h.bookService.List(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BookSummary, 0, len(books))
	for _, b := range books {
		items = append(items, dto.BookSummary{ID: b.ID, Title: b.Title, Author: b.Author})
	}
	c.JSON(http.StatusOK, dto.BookListResponse{Books: items, MaxPage: maxPage})
}

func (h *BookHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, errInvalidBookID)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.bookService.Detail(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.BookDetailResponse{BookResponse: toBookResponse(&detail.Book)}
	if info := detail.RentalInfo; info != nil {
		resp.RentalInfo = &dto.RentalInfoResponse{
			UserName:       info.UserName,
			RentalDate:     info.RentalDate,
			ReturnDeadline: info.ReturnDeadline,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func toBookResponse(b *models.Book) dto.BookResponse {
	return dto.BookResponse{
		ID:          b.ID,
		ISBN13:      b.ISBN13,
		Title:       b.Title,
		Author:      b.Author,
		PublishDate: b.PublishDate.Format(dto.DateLayout),
	}
}
