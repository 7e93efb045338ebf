package api

import (
	"context"
	"fmt"
	"strings"
)

type ProductCount struct {
	ActiveCount int `json:"activeCount"`
	TotalCount  int `json:"totalCount"`
}

type SalesSummary struct {
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
}

// RevenuePoint is one point on the revenue chart. Date is "MM/DD/YYYY".
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// Month returns the month part of Date, the chart's axis label.
func (p RevenuePoint) Month() string {
	month, _, _ := strings.Cut(p.Date, "/")
	return month
}

type UnitsSold struct {
	Name  string  `json:"name"`
	Units float64 `json:"units"`
}

// Dashboard is everything the dashboard screen shows.
type Dashboard struct {
	Count   ProductCount   `json:"count"`
	Sales   SalesSummary   `json:"sales"`
	Revenue []RevenuePoint `json:"revenue"`
	Units   []UnitsSold    `json:"units"`
}

func (c *Client) ProductCount(ctx context.Context) (*ProductCount, error) {
	var out ProductCount
	if err := c.get(ctx, "dash/getProductCount", &out); err != nil {
		return nil, fmt.Errorf("Client.ProductCount: %w", err)
	}
	return &out, nil
}

func (c *Client) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	var out SalesSummary
	if err := c.get(ctx, "dash/getProductSalesUnit", &out); err != nil {
		return nil, fmt.Errorf("Client.SalesSummary: %w", err)
	}
	return &out, nil
}

func (c *Client) Revenue(ctx context.Context) ([]RevenuePoint, error) {
	var out []RevenuePoint
	if err := c.get(ctx, "dash/getProductRevenue", &out); err != nil {
		return nil, fmt.Errorf("Client.Revenue: %w", err)
	}
	return out, nil
}

func (c *Client) UnitsSold(ctx context.Context) ([]UnitsSold, error) {
	var out []UnitsSold
	if err := c.get(ctx, "dash/getUnitSold", &out); err != nil {
		return nil, fmt.Errorf("Client.UnitsSold: %w", err)
	}
	return out, nil
}

// Dashboard fetches the four dashboard datasets in order and stops at the first error.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	count, err := c.ProductCount(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := c.SalesSummary(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := c.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	units, err := c.UnitsSold(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Count: *count, Sales: *sales, Revenue: revenue, Units: units}, nil
}

// FormatCompact renders a KPI value with two decimals, scaled to K or M.
func FormatCompact(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fK", n/1_000)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}
