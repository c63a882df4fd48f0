package validator

import (
	"fmt"
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleInput struct {
	Name string `json:"name" validate:"required"`
	Year int32  `json:"year" validate:"titleyear"`
}

func newTestValidator(t *testing.T) *govalidator.Validate {
	t.Helper()
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	require.NoError(t, v.RegisterValidation("titleyear", ValidateTitleYear))
	require.NoError(t, v.RegisterValidation("slug", ValidateSlug))
	return v
}

func TestValidateTitleYear(t *testing.T) {
	v := newTestValidator(t)
	currentYear := int32(time.Now().Year())
	cases := []struct {
		year int32
		ok   bool
	}{
		{1699, false},
		{1700, true},
		{currentYear, true},
		{currentYear + 1, false},
		{2500, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("year=%d", tc.year), func(t *testing.T) {
			errs := ValidateStruct(v, titleInput{Name: "x", Year: tc.year})
			if tc.ok {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, "year")
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	v := newTestValidator(t)
	type input struct {
		Slug string `json:"slug" validate:"omitempty,slug"`
	}
	assert.Empty(t, ValidateStruct(v, input{Slug: "feature-films_2"}))
	assert.Empty(t, ValidateStruct(v, input{}))
	assert.Contains(t, ValidateStruct(v, input{Slug: "bad slug!"}), "slug")
}

func TestValidateStructUsesJSONFieldNames(t *testing.T) {
	v := newTestValidator(t)
	errs := ValidateStruct(v, titleInput{Year: 2000})
	assert.Equal(t, map[string]string{"name": "This field is required"}, errs)
}
