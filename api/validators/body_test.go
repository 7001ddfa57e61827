package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
)

type samplePayload struct {
	PurchaseID string `json:"purchase_id" validate:"required,uuid"`
	Title      string `json:"title" validate:"required,min=1,max=10"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"purchase_id":"4f9d7f6e-07de-4f4e-9a63-6a1b72dd41a4","title":"hello"}`))

	var payload samplePayload
	require.NoError(t, DecodeJSONBody(req, &payload))
	assert.Equal(t, "hello", payload.Title)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"purchase_id":"4f9d7f6e-07de-4f4e-9a63-6a1b72dd41a4","title":"x","extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"purchase_id":"nope","title":""}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "details should map field names to messages")
	assert.Contains(t, details, "purchase_id")
	assert.Contains(t, details, "title")
}
