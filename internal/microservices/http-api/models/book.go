package models

import "time"

type Book struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ISBN13      string    `gorm:"column:isbn13;size:13;not null" json:"isbn13"`
	Title       string    `gorm:"not null" json:"title"`
	Author      string    `gorm:"not null" json:"author"`
	PublishDate time.Time `gorm:"type:date;not null" json:"publishDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Book) TableName() string {
	return "books"
}
