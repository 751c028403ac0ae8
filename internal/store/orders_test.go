package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	at := time.Date(2025, 1, 15, 9, 30, 45, 0, time.UTC)

	assert.Equal(t, "FR-202501150930-000001", FormatInvoiceNumber(at, 1))
	assert.Equal(t, "FR-202501150930-001234", FormatInvoiceNumber(at, 1234))
}

func TestFormatInvoiceNumberUsesUTC(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tz indisponible")
	}

	// 01:00 à Paris en hiver = 00:00 UTC
	at := time.Date(2025, 1, 15, 1, 0, 0, 0, paris)
	assert.Equal(t, "FR-202501150000-000007", FormatInvoiceNumber(at, 7))
}
