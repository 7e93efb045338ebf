package api

import (
	"context"
	"fmt"
	"strings"
)

// DefaultPageSize is the product table's page size.
const DefaultPageSize = 10

type Product struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	Description        string  `json:"description"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
	AvailabilityStatus string  `json:"availabilityStatus"`
}

type Review struct {
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
}

// Positive reports whether the rating is shown as a good review.
func (r Review) Positive() bool {
	return r.Rating >= 3
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type reviewRequest struct {
	ID int `json:"id"`
}

type reviewResponse struct {
	Review []Review `json:"review"`
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out productsResponse
	if err := c.get(ctx, "users/products", &out); err != nil {
		return nil, fmt.Errorf("Client.Products: %w", err)
	}
	return out.Products, nil
}

func (c *Client) Reviews(ctx context.Context, productID int) ([]Review, error) {
	var out reviewResponse
	if err := c.post(ctx, "users/review", reviewRequest{ID: productID}, &out); err != nil {
		return nil, fmt.Errorf("Client.Reviews: %w", err)
	}
	return out.Review, nil
}

// ProductRow is a table row. No is the product's 1-based position in the
// unfiltered list and stays stable while searching.
type ProductRow struct {
	No int `json:"no"`
	Product
}

type ProductPage struct {
	Rows     []ProductRow `json:"rows"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Total    int          `json:"total"`
	Pages    int          `json:"pages"`
}

// Paginate filters products by a case-insensitive substring of the name and
// returns the requested zero-based page. An empty query keeps every product.
func Paginate(products []Product, query string, page, pageSize int) ProductPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matched := make([]ProductRow, 0, len(products))
	for i, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		matched = append(matched, ProductRow{No: i + 1, Product: p})
	}

	out := ProductPage{
		Page:     page,
		PageSize: pageSize,
		Total:    len(matched),
		Pages:    pageCount(len(matched), pageSize),
		Rows:     []ProductRow{},
	}
	if page >= out.Pages {
		return out
	}
	start := page * pageSize
	end := min(start+pageSize, len(matched))
	out.Rows = matched[start:end]
	return out
}

func pageCount(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}
