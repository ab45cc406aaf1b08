package dto

import "time"

// DateLayout is the wire format of publish dates.
const DateLayout = "2006-01-02"

// BookSummary is one entry of the catalog list.
type BookSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type BookListResponse struct {
	Books   []BookSummary `json:"books"`
	MaxPage int           `json:"maxPage"`
}

type RentalInfoResponse struct {
	UserName       string    `json:"userName"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
}

type BookResponse struct {
	ID          int64  `json:"id"`
	ISBN13      string `json:"isbn13"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishDate string `json:"publishDate"`
}

// BookDetailResponse carries rentalInfo as null when the book is available.
type BookDetailResponse struct {
	BookResponse
	RentalInfo *RentalInfoResponse `json:"rentalInfo"`
}

// CreateBookRequest: admin payload, every field is required
type CreateBookRequest struct {
	ISBN13      string `json:"isbn13" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	PublishDate string `json:"publishDate" binding:"required"`
}

// UpdateBookRequest replaces all fields of bookId.
type UpdateBookRequest struct {
	BookID int64 `json:"bookId" binding:"required,gt=0"`
	CreateBookRequest
}
