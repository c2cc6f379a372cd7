package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportOrder(t *testing.T) ordering.Order {
	t.Helper()
	line, err := ordering.NewOrderLine(
		uuid.Nil, uuid.New(), "Pain de campagne", "pièce",
		decimal.NewFromInt(2), decimal.NewFromFloat(3.40))
	require.NoError(t, err)

	return ordering.Order{
		Number:    "C-20260829-0001",
		Status:    ordering.OrderStatusPending,
		Lines:     []ordering.OrderLine{*line},
		Total:     decimal.NewFromFloat(6.80),
		OrderedAt: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
	}
}

func TestWriteOrdersUTF8(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, EncodingUTF8, []ordering.Order{exportOrder(t)}))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "numero,statut")
	assert.Contains(t, lines[1], "C-20260829-0001")
	assert.Contains(t, lines[1], "Pain de campagne")
	assert.Contains(t, lines[1], "6.80")
}

func TestWriteOrdersWindows1252(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, EncodingLatin1, []ordering.Order{exportOrder(t)}))

	out := buf.Bytes()
	assert.Contains(t, string(out), "numero;statut", "latin export uses semicolons")
	// "pièce" transcoded: è is 0xE8 in Windows-1252, not the UTF-8 pair
	assert.Contains(t, string(out), "pi\xe8ce")
	assert.NotContains(t, string(out), "pièce")
}

func TestCSVWriterContentType(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "text/csv; charset=utf-8", NewCSVWriter(&buf, EncodingUTF8).ContentType())
	assert.Equal(t, "text/csv; charset=windows-1252", NewCSVWriter(&buf, EncodingLatin1).ContentType())
}
