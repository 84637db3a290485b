package models

import "time"

// Product is the model for the 'products' table.
// Price is stored as DECIMAL(12,2) in MySQL and scanned into a float64;
// every money calculation is rounded back to two decimals before it
// leaves the API.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	CategoryID  int64     `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Available   bool      `json:"available" db:"available"`
	Image       *string   `json:"image,omitempty" db:"image"` // Use pointer for NULL
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Joins (not in the products table, populated manually)
	CategoryName string   `json:"categoryName,omitempty" db:"-"`
	CategorySlug string   `json:"categorySlug,omitempty" db:"-"`
	Reviews      []Review `json:"reviews,omitempty" db:"-"`
	Rating       float64  `json:"rating" db:"-"`
}

// Thumbnail returns the product image URL, or a placeholder when no
// image was uploaded.
func (p *Product) Thumbnail() string {
	if p.Image != nil && *p.Image != "" {
		return *p.Image
	}
	return "https://via.placeholder.com/240x240.jpg"
}

// Review is the model for the 'reviews' table. One review per user per
// product; posting again overwrites the previous one.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Rating    int       `json:"rating" db:"rating"`
	Content   string    `json:"content" db:"content"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
