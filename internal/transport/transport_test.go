package transport

import (
	"context"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfenner/leasesync/pkg/errors"
)

func TestBasicAuthApply(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example/api", nil)
	auth := &BasicAuth{Username: "key", Password: "secret"}

	auth.Apply(req)

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "key", user)
	assert.Equal(t, "secret", pass)
}

func TestTokenAuthApply(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example/api", nil)
	auth := &TokenAuth{Header: "phpipam-token"}

	auth.Apply(req)
	assert.Empty(t, req.Header.Get("phpipam-token"), "no header before a token exists")

	auth.Token = "tok123"
	auth.Apply(req)
	assert.Equal(t, "tok123", req.Header.Get("phpipam-token"))
}

func TestClientSetsCommonHeaders(t *testing.T) {
	var got http.Header
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		method = r.Method
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(&NoAuth{})

	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{"a": "b"})
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestDecodeResponseSuccess(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"data":{"token":"abc"}}`)),
	}

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	err := DecodeResponse(resp, &payload, "phpipam", "/user/")

	require.NoError(t, err)
	assert.Equal(t, "abc", payload.Data.Token)
}

func TestDecodeResponseNonOKStatus(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader("boom")),
	}

	err := DecodeResponse(resp, nil, "opnsense", "/api/leases")

	require.Error(t, err)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestDecodeResponseNotFoundIsSentinel(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("")),
	}

	err := DecodeResponse(resp, nil, "phpipam", "/subnets/1/addresses/")

	assert.True(t, errors.IsNotFound(err))
}

func TestDecodeResponseMalformedJSON(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"rows": oops`)),
	}

	var payload map[string]any
	err := DecodeResponse(resp, &payload, "opnsense", "/api/leases")

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeResponseNilTargetDiscardsBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusCreated,
		Body:       io.NopCloser(strings.NewReader(`{"success":true}`)),
	}

	assert.NoError(t, DecodeResponse(resp, nil, "phpipam", "/addresses/"))
}

func TestTLSConfigFromVerify(t *testing.T) {
	t.Run("true-like values verify normally", func(t *testing.T) {
		for _, v := range []string{"", "true", "1", "yes", "TRUE"} {
			cfg, err := TLSConfigFromVerify(v)
			require.NoError(t, err)
			assert.Nil(t, cfg, "value %q", v)
		}
	})

	t.Run("false-like values skip verification", func(t *testing.T) {
		for _, v := range []string{"false", "0", "no", "False"} {
			cfg, err := TLSConfigFromVerify(v)
			require.NoError(t, err)
			require.NotNil(t, cfg, "value %q", v)
			assert.True(t, cfg.InsecureSkipVerify)
		}
	})

	t.Run("nonexistent path falls back to verification", func(t *testing.T) {
		cfg, err := TLSConfigFromVerify("/does/not/exist.pem")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("CA bundle path is loaded", func(t *testing.T) {
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		path := filepath.Join(t.TempDir(), "ca.pem")
		pem := pemEncodeCert(t, server.Certificate().Raw)
		require.NoError(t, os.WriteFile(path, pem, 0o600))

		cfg, err := TLSConfigFromVerify(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.NotNil(t, cfg.RootCAs)
		assert.False(t, cfg.InsecureSkipVerify)
	})

	t.Run("garbage bundle is a config error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

		_, err := TLSConfigFromVerify(path)
		var cfgErr *errors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func pemEncodeCert(t *testing.T, der []byte) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}
