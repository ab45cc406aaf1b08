package dto

import "time"

type StartRentalRequest struct {
	BookID int64 `json:"bookId" binding:"required,gt=0"`
}

type StartRentalResponse struct {
	ID             int64     `json:"id"`
	BookID         int64     `json:"bookId"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
}

type ReturnRentalRequest struct {
	RentalID int64 `json:"rentalId" binding:"required,gt=0"`
}

type ReturnRentalResponse struct {
	Result string `json:"result"`
}

type CurrentRental struct {
	RentalID       int64     `json:"rentalId"`
	BookID         int64     `json:"bookId"`
	BookName       string    `json:"bookName"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
}

type CurrentRentalsResponse struct {
	RentalBooks []CurrentRental `json:"rentalBooks"`
}

type RentalHistoryEntry struct {
	RentalID   int64     `json:"rentalId"`
	BookID     int64     `json:"bookId"`
	BookName   string    `json:"bookName"`
	RentalDate time.Time `json:"rentalDate"`
	ReturnDate time.Time `json:"returnDate"`
}

type RentalHistoryResponse struct {
	RentalHistory []RentalHistoryEntry `json:"rentalHistory"`
}

// AdminRental is an open rental with its borrower, for the admin overview.
type AdminRental struct {
	RentalID       int64     `json:"rentalId"`
	BookID         int64     `json:"bookId"`
	BookName       string    `json:"bookName"`
	UserID         int64     `json:"userId"`
	UserName       string    `json:"userName"`
	UserEmail      string    `json:"userEmail"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
	Overdue        bool      `json:"overdue"`
}

type AdminRentalsResponse struct {
	Rentals []AdminRental `json:"rentals"`
}
