package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

type samplePayload struct {
	Name  string  `json:"name" validate:"required,max=10"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","phone":"+52 55 1234 5678"}`))
		var dest samplePayload
		require.NoError(t, DecodeJSONBody(r, &dest))
		assert.Equal(t, "ok", dest.Name)
	})

	t.Run("unknownField", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","bogus":1}`))
		var dest samplePayload
		err := DecodeJSONBody(r, &dest)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("fieldErrorsKeyedByJSONName", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","email":"nope","phone":"abc"}`))
		var dest samplePayload
		err := DecodeJSONBody(r, &dest)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)

		details, ok := typed.Details().(map[string]string)
		require.True(t, ok)
		assert.Contains(t, details, "name")
		assert.Contains(t, details, "email")
		assert.Contains(t, details, "phone")
	})
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?only_active=false", nil)
	got, err := ParseQueryBool(r, "only_active", true)
	require.NoError(t, err)
	assert.False(t, got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryBool(r, "only_active", true)
	require.NoError(t, err)
	assert.True(t, got)

	r = httptest.NewRequest("GET", "/?only_active=maybe", nil)
	_, err = ParseQueryBool(r, "only_active", true)
	require.Error(t, err)
}

func TestParseQueryUUID(t *testing.T) {
	r := httptest.NewRequest("GET", "/?category_id=0c9adacd-9d2a-4a52-bd6c-8cbbcc4f8a7d", nil)
	got, err := ParseQueryUUID(r, "category_id")
	require.NoError(t, err)
	require.NotNil(t, got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryUUID(r, "category_id")
	require.NoError(t, err)
	assert.Nil(t, got)

	r = httptest.NewRequest("GET", "/?category_id=abc", nil)
	_, err = ParseQueryUUID(r, "category_id")
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 0))
	assert.Equal(t, "he", SanitizeString("hello", 2))
}
