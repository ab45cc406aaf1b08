package models

import "time"

// LoanPeriod is how long a book may be kept before it is due.
const LoanPeriod = 7 * 24 * time.Hour

// Rental is one borrow of a book. ReturnDate is nil while the book is out;
// the partial unique index idx_rentals_one_open_per_book allows a single
// such row per book.
type Rental struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID         int64      `gorm:"not null;index" json:"bookId"`
	UserID         int64      `gorm:"not null;index" json:"userId"`
	RentalDate     time.Time  `gorm:"not null" json:"rentalDate"`
	ReturnDeadline time.Time  `gorm:"not null" json:"returnDeadline"`
	ReturnDate     *time.Time `json:"returnDate,omitempty"`

	// Associations
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Rental) TableName() string {
	return "rentals"
}

// IsOpen reports whether the book is still out on this rental.
func (r *Rental) IsOpen() bool {
	return r.ReturnDate == nil
}
