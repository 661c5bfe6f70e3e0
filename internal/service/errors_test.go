package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

func TestNewValidator_CategoryTag(t *testing.T) {
	var v = validate
	require.NotPanics(t, func() { v = newValidator() })

	req := bookRequest("Dune")
	req.Category = domain.CategoryScienceFiction
	require.NoError(t, v.Struct(req))

	req.Category = "Cookbooks"
	err := check(req)
	require.ErrorIs(t, err, ErrInvalidField)
	assert.Contains(t, err.Error(), "category (category)")

	req.Category = ""
	require.ErrorIs(t, check(req), ErrMissingField)
}

func TestCheck_UsesJSONNames(t *testing.T) {
	err := check(transport.FavoriteRequest{UserID: 1})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "book_id")
}
