package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorNotFound(t *testing.T) {
	err := NewAPIError("phpipam", 404, "/subnets/12/addresses/", "not found")
	assert.True(t, IsNotFound(err))

	err = NewAPIError("phpipam", 500, "/subnets/12/addresses/", "boom")
	assert.False(t, IsNotFound(err))
}

func TestAuthenticationErrorIsAuthFailed(t *testing.T) {
	err := &AuthenticationError{System: "phpipam", Method: "app_code", Message: "no token in response"}
	assert.True(t, IsAuthFailed(err))
	assert.Contains(t, err.Error(), "phpipam")
}

func TestConfigErrorFormatting(t *testing.T) {
	err := NewConfigError("OPNSENSE_HOST", "required setting is not set", nil)
	assert.Equal(t, "configuration error for OPNSENSE_HOST: required setting is not set", err.Error())
	assert.True(t, IsConfig(err))
	assert.False(t, IsConfig(New("other")))
}

func TestWrapHelpersPassNil(t *testing.T) {
	assert.NoError(t, WrapParse("json", "arp response", nil))
	assert.NoError(t, WrapAPI("opnsense", "/api/leases", nil))
}

func TestWrapParseUnwraps(t *testing.T) {
	cause := New("unexpected token")
	err := WrapParse("json", "arp response", cause)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "arp response")
}
