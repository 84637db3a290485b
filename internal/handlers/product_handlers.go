package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bytexshop/bytex-golang/internal/catalog"
)

//
// --- Storefront Catalog Handlers ---
//

// Frontpage is the handler for GET /
// It renders the eight newest products.
func (h *Handlers) Frontpage(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context(), catalog.Filter{Limit: 8})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Shop is the handler for GET /shop/
// Supports ?category=<slug> filtering and ?query=<text> search.
func (h *Handlers) Shop(c *gin.Context) {
	activeCategory := c.Query("category")
	query := c.Query("query")

	products, err := h.Catalog.ListProducts(c.Request.Context(), catalog.Filter{
		CategorySlug: activeCategory,
		Query:        query,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":       products,
		"categories":     categories,
		"activeCategory": activeCategory,
	})
}

// GetProduct is the handler for GET /shop/:slug
// It renders the product detail page: product, reviews and rating.
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.Catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateReviewInput defines the JSON for posting a product review.
type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Content string `json:"content" binding:"required"`
}

// CreateReview is the handler for POST /shop/:slug/reviews
// A user reviewing the same product twice updates their earlier review.
func (h *Handlers) CreateReview(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	if err := h.Catalog.UpsertReview(c.Request.Context(), product.ID, userID, input.Rating, input.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review saved"})
}

// CreateProductInput defines the JSON for adding a catalog product.
type CreateProductInput struct {
	CategoryID  int64   `json:"categoryId" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       *string `json:"image"`
}

// CreateProduct is the handler for POST /products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.CreateProduct(c.Request.Context(), catalog.CreateProductInput{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}
