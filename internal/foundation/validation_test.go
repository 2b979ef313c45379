package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func TestValidatorChain(t *testing.T) {
	minLen := func(value string) ValidationResult {
		if len(value) < 3 {
			return Invalid(NewValidationError("name", "min_length", "too short"))
		}
		return Valid()
	}
	chain := NewValidatorChain(Required("name")).Add(minLen)

	assert.True(t, chain.Validate("alice").Valid)

	result := chain.Validate("")
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)

	result = chain.Validate("ab")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "min_length", result.Errors[0].Code)
}

func TestOneOf(t *testing.T) {
	v := OneOf("profile", []string{"bio", "full"})
	assert.True(t, v("bio").Valid)

	result := v("magazine")
	require.False(t, result.Valid)
	assert.Equal(t, "magazine", result.Errors[0].Value)
	assert.Equal(t, "profile: must be one of: [bio full]", result.Errors[0].Error())
}

func TestField(t *testing.T) {
	type site struct{ Title string }
	v := Field(func(s site) string { return s.Title }, Required("site.title"))

	assert.True(t, v(site{Title: "x"}).Valid)
	assert.False(t, v(site{}).Valid)
}

func TestValidationResult_ToError(t *testing.T) {
	assert.NoError(t, Valid().ToError())

	err := Invalid(
		NewValidationError("a", "required", "is required"),
		NewValidationError("b", "required", "is required"),
	).ToError()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "a: is required; b: is required", ce.Message())
	field, _ := ce.Context().GetString("field")
	assert.Equal(t, "a", field)
}
