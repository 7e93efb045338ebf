package authbackend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultClientHasNoTimeout(t *testing.T) {
	c := New("http://backend.test")
	require.Zero(t, c.httpClient.Timeout)
	require.Equal(t, "http://backend.test/auth/refresh", c.refreshURL)
}
