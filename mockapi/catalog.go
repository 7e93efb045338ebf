package mockapi

import (
	"fmt"
	"math"

	"github.com/jrsteele09/product-console/api"
	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

var (
	productNames = []string{
		"Essence Mascara Lash Princess", "Eyeshadow Palette with Mirror", "Powder Canister",
		"Red Lipstick", "Red Nail Polish", "Calvin Klein CK One", "Chanel Coco Noir Eau De",
		"Dior J'adore", "Dolce Shine Eau de", "Gucci Bloom Eau de", "Annibale Colombo Bed",
		"Annibale Colombo Sofa", "Bedside Table African Cherry", "Knoll Saarinen Executive Conference Chair",
		"Wooden Bathroom Sink With Mirror", "Apple", "Beef Steak", "Cat Food", "Chicken Meat",
		"Cooking Oil", "Cucumber", "Dog Food", "Eggs", "Fish Steak", "Green Bell Pepper",
	}
	productCategories = []string{"beauty", "fragrances", "furniture", "groceries"}
	productBrands     = []string{"Essence", "Glamour Beauty", "Velvet Touch", "Calvin Klein", "Chanel", "Dior", "Annibale Colombo", "Knoll", "Farm Fresh"}
	reviewers         = []string{"John Doe", "Nolan Gonzalez", "Scarlett Wright", "Lucas Gordon", "Eleanor Collins", "Liam Garcia"}
	reviewComments    = []string{"Very satisfied!", "Would not recommend!", "Great product!", "Disappointing product!", "Highly impressed!", "Not as described!"}
	monthNames        = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Catalog is the fixed product data set the mock backend serves.
type Catalog struct {
	Products []api.Product
	Reviews  map[int][]api.Review
	Revenue  []api.RevenuePoint
	Units    []api.UnitsSold
	Sales    api.SalesSummary
}

// NewCatalog builds a deterministic catalog.
func NewCatalog() *Catalog {
	c := &Catalog{Reviews: make(map[int][]api.Review)}

	for i, name := range productNames {
		id := i + 1
		status := "In Stock"
		if id%4 == 0 {
			status = "Low Stock"
		}
		if id%7 == 0 {
			status = "Out of Stock"
		}
		c.Products = append(c.Products, api.Product{
			ID:                 id,
			Name:               name,
			Category:           productCategories[i*len(productCategories)/len(productNames)],
			Brand:              productBrands[i%len(productBrands)],
			Description:        fmt.Sprintf("%s from the %s range.", name, productBrands[i%len(productBrands)]),
			Price:              round2(4.99 + float64(id*id)*1.37),
			DiscountPercentage: round2(float64(id%9) * 2.31),
			AvailabilityStatus: status,
		})

		for j := 0; j < 3; j++ {
			k := (i + j) % len(reviewers)
			c.Reviews[id] = append(c.Reviews[id], api.Review{
				ReviewerName:  reviewers[k],
				ReviewerEmail: fmt.Sprintf("%s@example.com", slug(reviewers[k])),
				Rating:        (i+j*2)%5 + 1,
				Comment:       reviewComments[(i+j)%len(reviewComments)],
				Date:          fmt.Sprintf("2024-%02d-%02dT08:56:21.618Z", j+4, id),
			})
		}
	}

	for m := range monthNames {
		c.Revenue = append(c.Revenue, api.RevenuePoint{
			Date:    fmt.Sprintf("%02d/01/2024", m+1),
			Revenue: float64(42_000 + m*3_750 + (m%3)*1_200),
		})
	}

	for _, cat := range productCategories {
		var units float64
		for _, p := range c.Products {
			if p.Category == cat {
				units += float64(p.ID * 113)
			}
		}
		c.Units = append(c.Units, api.UnitsSold{Name: cat, Units: units})
		c.Sales.Units += units
	}
	for _, r := range c.Revenue {
		c.Sales.Revenue += r.Revenue
	}
	return c
}

// Count reports how many products are in stock out of the total.
// ReviewsFor returns the product's reviews, or ErrNotFound for an unknown id.
func (c *Catalog) ReviewsFor(productID int) ([]api.Review, error) {
	reviews, ok := c.Reviews[productID]
	if !ok {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrNotFound, "product %d", productID)
	}
	return reviews, nil
}

func (c *Catalog) Count() api.ProductCount {
	count := api.ProductCount{TotalCount: len(c.Products)}
	for _, p := range c.Products {
		if p.AvailabilityStatus != "Out of Stock" {
			count.ActiveCount++
		}
	}
	return count
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			out = append(out, '.')
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
