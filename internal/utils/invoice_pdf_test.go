package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSepaQR(t *testing.T) {
	qr, err := GenerateSepaQR("FR7630006000011234567890189", "AGRIFRPP", "Game Market", "FR-202501011200-000001", 59.99)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	raw := strings.TrimPrefix(qr, "data:image/png;base64,")
	png, err := base64.StdEncoding.DecodeString(raw)
	require.NoError(t, err)

	// signature PNG
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestGetFrontendInvoiceBaseURLFallback(t *testing.T) {
	t.Setenv("FRONTEND_INVOICE_URL", "")
	assert.Equal(t, "http://localhost:5173/facture", GetFrontendInvoiceBaseURL())

	t.Setenv("FRONTEND_INVOICE_URL", "https://game-market.example/facture")
	assert.Equal(t, "https://game-market.example/facture", GetFrontendInvoiceBaseURL())
}
