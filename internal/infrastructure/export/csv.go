package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/ordering"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding selects the character set of the produced CSV. Spreadsheet
// users on Windows still expect latin files with semicolon separators.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "windows-1252"
)

// ParseEncoding maps a request parameter to an Encoding. Empty input
// selects UTF-8.
func ParseEncoding(s string) (Encoding, bool) {
	switch strings.ToLower(s) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, true
	case "windows-1252", "latin1", "iso-8859-1":
		return EncodingLatin1, true
	}
	return "", false
}

// ContentTypeFor returns the Content-Type header value for the encoding
func ContentTypeFor(enc Encoding) string {
	if enc == EncodingLatin1 {
		return "text/csv; charset=windows-1252"
	}
	return "text/csv; charset=utf-8"
}

// CSVWriter writes CSV rows in the requested encoding. Windows-1252
// output uses semicolons, matching what French Excel expects.
type CSVWriter struct {
	w   *csv.Writer
	enc Encoding
}

// NewCSVWriter wraps an io.Writer with encoding-aware CSV output
func NewCSVWriter(out io.Writer, enc Encoding) *CSVWriter {
	var w *csv.Writer
	if enc == EncodingLatin1 {
		w = csv.NewWriter(transform.NewWriter(out, charmap.Windows1252.NewEncoder()))
		w.Comma = ';'
	} else {
		w = csv.NewWriter(out)
	}
	return &CSVWriter{w: w, enc: enc}
}

// Write writes one record
func (c *CSVWriter) Write(record []string) error {
	return c.w.Write(record)
}

// Flush flushes buffered records and reports any write error
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// ContentType returns the Content-Type header value for the encoding
func (c *CSVWriter) ContentType() string {
	return ContentTypeFor(c.enc)
}

// WriteOrders exports orders one line per order line, with the order
// header columns repeated.
func WriteOrders(out io.Writer, enc Encoding, orders []ordering.Order) error {
	w := NewCSVWriter(out, enc)
	if err := w.Write([]string{
		"numero", "statut", "commande_le", "produit", "unite",
		"quantite", "prix_unitaire", "montant", "total_commande",
	}); err != nil {
		return err
	}

	for _, order := range orders {
		for _, line := range order.Lines {
			record := []string{
				order.Number,
				string(order.Status),
				order.OrderedAt.Format("02/01/2006 15:04"),
				line.Label,
				line.Unit,
				line.Quantity.String(),
				line.UnitPrice.StringFixed(2),
				line.Amount.StringFixed(2),
				order.Total.StringFixed(2),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// WriteSales exports sales one line per sale line
func WriteSales(out io.Writer, enc Encoding, sales []caisse.Sale) error {
	w := NewCSVWriter(out, enc)
	if err := w.Write([]string{
		"numero", "vendu_le", "libelle", "quantite",
		"prix_unitaire", "montant", "total_ticket",
	}); err != nil {
		return err
	}

	for _, sale := range sales {
		for _, line := range sale.Lines {
			record := []string{
				sale.Number,
				sale.SoldAt.Format("02/01/2006 15:04"),
				line.Label,
				line.Quantity.String(),
				line.UnitPrice.StringFixed(2),
				line.Amount.StringFixed(2),
				sale.Total.StringFixed(2),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
