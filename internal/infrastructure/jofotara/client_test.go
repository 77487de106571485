package jofotara_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?><Invoice><cbc:ID>INV-1001</cbc:ID></Invoice>`

func TestSubmit_ClientSecretAccepted(t *testing.T) {
	var gotClientID, gotSecret, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.Header.Get("Client-Id")
		gotSecret = r.Header.Get("Secret-Key")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"EINV_QR":"qr-payload","EINV_INV_UUID":"portal-uuid-1","EINV_RESULTS":{"INFO":[{"EINV_CODE":"OK","EINV_MESSAGE":"accepted"}],"ERRORS":[]}}`))
	}))
	defer srv.Close()

	client := jofotara.NewClient(0)
	res := client.Submit(context.Background(), sampleXML, jofotara.Credentials{
		Endpoint:  srv.URL,
		Mode:      entity.AuthModeClientSecret,
		ClientID:  "  cid-1  ", // surrounding whitespace must be trimmed
		SecretKey: "sk-1\n",
	})

	require.NoError(t, res.Err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, "qr-payload", res.QRCode)
	assert.Equal(t, "portal-uuid-1", res.RemoteUUID)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.SubmittedAt.IsZero())

	assert.Equal(t, "cid-1", gotClientID)
	assert.Equal(t, "sk-1", gotSecret)
	assert.Equal(t, "application/json", gotContentType)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &envelope))
	decoded, err := base64.StdEncoding.DecodeString(envelope["invoice"])
	require.NoError(t, err)
	assert.Equal(t, sampleXML, string(decoded), "client_secret mode wraps the base64 document in an invoice envelope")
}

func TestSubmit_TokenModeSendsRawXML(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`submitted`)) // token-mode portals answer with opaque bodies
	}))
	defer srv.Close()

	client := jofotara.NewClient(0)
	res := client.Submit(context.Background(), sampleXML, jofotara.Credentials{
		Endpoint: srv.URL,
		Mode:     entity.AuthModeToken,
		Token:    "tok-abc",
	})

	require.NoError(t, res.Err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "submitted", res.Response)

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, "application/xml", gotContentType)
	assert.Equal(t, sampleXML, string(gotBody), "token mode posts the document body unwrapped")
}

func TestSubmit_RejectionPreservesDiagnostics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"EINV_RESULTS":{"ERRORS":[` +
			`{"EINV_CODE":"E101","EINV_MESSAGE":"invalid tax number"},` +
			`{"EINV_CODE":"E205","EINV_MESSAGE":"duplicate invoice id"}]}}`))
	}))
	defer srv.Close()

	client := jofotara.NewClient(0)
	res := client.Submit(context.Background(), sampleXML, jofotara.Credentials{
		Endpoint:  srv.URL,
		Mode:      entity.AuthModeClientSecret,
		ClientID:  "cid",
		SecretKey: "sk",
	})

	assert.Equal(t, "error", res.Status)
	assert.Equal(t, http.StatusForbidden, res.HTTPStatus)

	var rejected *jofotara.RejectedError
	require.ErrorAs(t, res.Err, &rejected)
	assert.Equal(t, http.StatusForbidden, rejected.StatusCode)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, "E101", res.Diagnostics[0].Code)
	assert.Equal(t, "invalid tax number", res.Diagnostics[0].Message)
	assert.Equal(t, "E205", res.Diagnostics[1].Code)
	assert.Equal(t, "duplicate invoice id", res.Diagnostics[1].Message)
	assert.Equal(t, res.Diagnostics, rejected.Diagnostics)
}

func TestSubmit_NonJSONSuccessBodyRejectedInClientSecretMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance page</html>"))
	}))
	defer srv.Close()

	client := jofotara.NewClient(0)
	res := client.Submit(context.Background(), sampleXML, jofotara.Credentials{
		Endpoint:  srv.URL,
		Mode:      entity.AuthModeClientSecret,
		ClientID:  "cid",
		SecretKey: "sk",
	})

	assert.Equal(t, "error", res.Status, "a 2xx without a parseable envelope is not an acceptance")
	var rejected *jofotara.RejectedError
	require.ErrorAs(t, res.Err, &rejected)
	assert.Contains(t, res.Response, "maintenance page", "the raw body survives for inspection")
}

func TestSubmit_UnreachableHostIsTransportError(t *testing.T) {
	// Reserved TEST-NET-1 address: connect fails or times out, never answers.
	client := jofotara.NewClient(1 * time.Second)

	start := time.Now()
	res := client.Submit(context.Background(), sampleXML, jofotara.Credentials{
		Endpoint: "http://192.0.2.1:9/invoices",
		Mode:     entity.AuthModeToken,
		Token:    "tok",
	})
	elapsed := time.Since(start)

	assert.Equal(t, "error", res.Status)
	assert.Zero(t, res.HTTPStatus)
	var transport *jofotara.TransportError
	require.ErrorAs(t, res.Err, &transport)
	assert.Less(t, elapsed, 5*time.Second, "the configured timeout bounds the attempt")
}

func TestSubmit_MissingCredentialsNeverCallsOut(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := jofotara.NewClient(0)

	cases := []struct {
		name  string
		creds jofotara.Credentials
	}{
		{"empty endpoint", jofotara.Credentials{Mode: entity.AuthModeToken, Token: "tok"}},
		{"token mode without token", jofotara.Credentials{Endpoint: srv.URL, Mode: entity.AuthModeToken}},
		{"client_secret without secret", jofotara.Credentials{Endpoint: srv.URL, Mode: entity.AuthModeClientSecret, ClientID: "cid"}},
		{"whitespace-only token", jofotara.Credentials{Endpoint: srv.URL, Mode: entity.AuthModeToken, Token: "   "}},
		{"unknown mode", jofotara.Credentials{Endpoint: srv.URL, Mode: "oauth"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := client.Submit(context.Background(), sampleXML, tc.creds)

			assert.Equal(t, "error", res.Status)
			assert.Zero(t, res.HTTPStatus)
			var cfgErr *jofotara.ConfigError
			require.ErrorAs(t, res.Err, &cfgErr)
		})
	}
	assert.Zero(t, calls, "configuration failures must not reach the portal")
}
