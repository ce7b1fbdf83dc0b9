package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd", "admin@hr.com"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "IsValidEmail(%q)", email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "IsValidEmail(%q)", email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@hr.com", NormalizeEmail("  Admin@HR.com "))
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
		"123E4567-E89B-12D3-A456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"urn:uuid:123e4567-e89b-12d3-a456-426614174000",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, "IsValidDate(%q)", s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, IsInSlice("a", slice))
	assert.False(t, IsInSlice("d", slice))
}

func TestIsNegative(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	zero := decimal.Zero
	assert.True(t, IsNegative(&neg))
	assert.False(t, IsNegative(&zero))
	assert.False(t, IsNegative(nil))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	assert.Equal(t, "email: invalid; phone: required", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	var errs ValidationErrors
	errs.Add("email", "invalid")
	errs.Add("phone", "required")
	errs.Add("email", "too long")

	assert.Equal(t, map[string]string{"email": "invalid", "phone": "required"}, errs.ToMap())
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("password", "password is required")
	var target ValidationErrors
	assert.ErrorAs(t, errs.Err(), &target)
	assert.Len(t, target, 1)
}
