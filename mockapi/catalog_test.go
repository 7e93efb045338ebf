package mockapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/mockapi"
)

func TestNewCatalog(t *testing.T) {
	c := mockapi.NewCatalog()
	require.Len(t, c.Products, 25)
	require.Len(t, c.Revenue, 12)
	require.Equal(t, "01/01/2024", c.Revenue[0].Date)

	for _, p := range c.Products {
		require.Len(t, c.Reviews[p.ID], 3)
		for _, r := range c.Reviews[p.ID] {
			require.GreaterOrEqual(t, r.Rating, 1)
			require.LessOrEqual(t, r.Rating, 5)
		}
	}

	count := c.Count()
	require.Equal(t, 25, count.TotalCount)
	require.Less(t, count.ActiveCount, count.TotalCount)

	var units float64
	for _, u := range c.Units {
		units += u.Units
	}
	require.Equal(t, units, c.Sales.Units)

	require.Equal(t, c.Products, mockapi.NewCatalog().Products)
}

func TestCatalog_ReviewsFor(t *testing.T) {
	c := mockapi.NewCatalog()

	reviews, err := c.ReviewsFor(c.Products[0].ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)

	_, err = c.ReviewsFor(999)
	require.ErrorIs(t, err, consoleerrors.ErrNotFound)
}
