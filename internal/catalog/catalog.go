// Package catalog is the read/write store for products, categories and
// reviews. Everything is raw SQL over the shared *sql.DB pool; the cart
// and checkout flows treat this package as read-only.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/bytexshop/bytex-golang/internal/models"
)

// ErrProductNotFound is returned when a product ID or slug does not
// resolve. A cart entry pointing at a vanished product surfaces this
// error unmodified; it is an integrity failure, never skipped.
var ErrProductNotFound = errors.New("catalog: product not found")

// ErrCategoryNotFound is returned when a category slug does not resolve.
var ErrCategoryNotFound = errors.New("catalog: category not found")

// Store wraps the database pool with catalog queries.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Filter narrows ListProducts. Zero values mean "no filter".
type Filter struct {
	CategorySlug string
	Query        string
	Limit        int
}

const productColumns = "id, category_id, name, slug, description, price, available, image, created_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var image sql.NullString
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Available, &image, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	return &p, nil
}

// GetProduct fetches a single product by ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// GetProductBySlug fetches a product by its URL slug, with the category
// name/slug joined in and reviews attached.
func (s *Store) GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT p.id, p.category_id, p.name, p.slug, p.description, p.price, p.available, p.image, p.created_at,
		       c.name, c.slug
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.slug = ?`, productSlug)

	var p models.Product
	var image sql.NullString
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Available, &image, &p.CreatedAt, &p.CategoryName, &p.CategorySlug)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by slug %q: %w", productSlug, err)
	}
	if image.Valid {
		p.Image = &image.String
	}

	if p.Reviews, err = s.ListReviews(ctx, p.ID); err != nil {
		return nil, err
	}
	p.Rating = averageRating(p.Reviews)

	return &p, nil
}

// ListProducts returns products newest first, optionally filtered by
// category slug and/or a substring search over name and description.
func (s *Store) ListProducts(ctx context.Context, f Filter) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []any

	if f.CategorySlug != "" {
		query += " AND category_id = (SELECT id FROM categories WHERE slug = ?)"
		args = append(args, f.CategorySlug)
	}
	if f.Query != "" {
		query += " AND (name LIKE ? OR description LIKE ?)"
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, name, slug FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category, generating the slug from the name.
func (s *Store) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c := models.Category{Name: name, Slug: slug.Make(name)}
	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?, ?)", c.Name, c.Slug)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	if c.ID, err = result.LastInsertId(); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateProductInput holds the writable product fields.
type CreateProductInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Image       *string
}

// CreateProduct inserts a product, generating the slug from the name.
func (s *Store) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	p := models.Product{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Available:   true,
		Image:       in.Image,
		CreatedAt:   time.Now(),
	}
	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (category_id, name, slug, description, price, available, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Available, p.Image, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertReview creates a user's review of a product, or updates it in
// place when the user reviewed the product before.
func (s *Store) UpsertReview(ctx context.Context, productID, userID int64, rating int, content string) error {
	var reviewID int64
	err := s.DB.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE product_id = ? AND created_by = ?",
		productID, userID).Scan(&reviewID)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.DB.ExecContext(ctx, `
			INSERT INTO reviews (product_id, rating, content, created_by, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			productID, rating, content, userID, time.Now())
	case err == nil:
		_, err = s.DB.ExecContext(ctx,
			"UPDATE reviews SET rating = ?, content = ? WHERE id = ?",
			rating, content, reviewID)
	}
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

// ListReviews returns a product's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, product_id, rating, content, created_by, created_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Rating, &r.Content, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}
