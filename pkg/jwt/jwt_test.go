package jwt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("s3cret", "u-1", "c-1", "customer", "repuestos-api", 5)
	require.NoError(t, err)

	c, err := Parse("s3cret", "repuestos-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "c-1", c.CompanyID)
	assert.Equal(t, "customer", c.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("s3cret", "u-1", "", "seller", "repuestos-api", 5)
	require.NoError(t, err)
	expired, err := Generate("s3cret", "u-1", "", "seller", "repuestos-api", -5)
	require.NoError(t, err)

	cases := map[string]struct {
		secret, issuer, token string
	}{
		"firma incorrecta": {"otro", "repuestos-api", tok},
		"otro emisor":      {"s3cret", "otra-app", tok},
		"expirado":         {"s3cret", "repuestos-api", expired},
		"basura":           {"s3cret", "", "no.es.jwt"},
	}
	for name, tc := range cases {
		_, err := Parse(tc.secret, tc.issuer, tc.token)
		assert.True(t, errors.Is(err, ErrInvalidToken), name)
	}
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", "", "seller", "x", 5)
	assert.Error(t, err)
}
