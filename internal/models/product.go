package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(128);not null"`
	Description string          `json:"description" gorm:"type:text;not null;default:''"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Review is a user's rating of a product. A user reviews a product at most once.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_user_product"`
	User      User      `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	ProductID uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_user_product"`
	Product   Product   `json:"product" gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null;default:''"`
	Rating    int       `json:"rating" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name aligned with the API resource.
func (Review) TableName() string {
	return "product_reviews"
}

// Collection is a named, unordered set of products curated by staff.
type Collection struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null"`
	Text      string    `json:"text" gorm:"type:text;not null;default:''"`
	Products  []Product `json:"products" gorm:"many2many:collection_products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Collection) TableName() string {
	return "product_collections"
}

// CollectionProduct is the junction row linking a collection to a product.
type CollectionProduct struct {
	CollectionID uint `gorm:"primaryKey"`
	ProductID    uint `gorm:"primaryKey"`
}

func (CollectionProduct) TableName() string {
	return "collection_products"
}
