package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeifmanya/membership-portal/internal/http/response"
)

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"token": "abc"})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("invalid credentials")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "invalid credentials", resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Identifier string `validate:"required"`
		Password   string `validate:"required,min=6"`
	}

	v := validator.New()
	err := v.Struct(form{Password: "123"})
	require.Error(t, err)

	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Identifier is a required field")
	assert.Contains(t, resp.Error, "field Password is too short")
}
