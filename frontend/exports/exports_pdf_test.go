package exports

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"stocktaker/models"
)

func TestRenderSessionReportPDF(t *testing.T) {
	data := SessionReportData{
		ShopHost:    "shop.example.com",
		GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Items: []models.ScannedItem{
			{
				Barcode:       "4006381333931",
				Symbology:     "EAN-13",
				ProductID:     130,
				ProductName:   "Logo Tee - TEE-RED-M",
				Reference:     "TEE-RED-M",
				QuantityAdded: 3,
				StockBefore:   7,
				StockAfter:    10,
			},
			{
				Barcode:       "96385074",
				Symbology:     "EAN-8",
				ProductID:     12,
				ProductName:   "Plain Soap",
				QuantityAdded: 1,
				StockBefore:   0,
				StockAfter:    1,
			},
		},
		TotalAdded: 4,
	}
	pdfBytes, err := renderSessionReportPDF(data)
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	if len(pdfBytes) == 0 || !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("expected pdf output, got %d bytes", len(pdfBytes))
	}
}

func TestRenderSessionReportPDFEmptySession(t *testing.T) {
	pdfBytes, err := renderSessionReportPDF(SessionReportData{
		ShopHost:    "shop.example.com",
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("render empty report: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestTruncateNameKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 60)
	got := truncateName(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated name is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") || utf8.RuneCountInString(got) != 48 {
		t.Fatalf("truncated name: %q (%d runes)", got, utf8.RuneCountInString(got))
	}

	short := "Cafetière à piston [REF-Ø1]"
	if truncateName(short) != short {
		t.Fatalf("short name should pass through unchanged, got %q", truncateName(short))
	}
}

func TestRenderItemBarcodePNGSymbologies(t *testing.T) {
	cases := []struct {
		value     string
		symbology string
	}{
		{"4006381333931", "EAN-13"},
		{"96385074", "EAN-8"},
		{"036000291452", "UPC-A"},
		{"1111111111111", "EAN-13"}, // bad checksum falls back to code128
	}
	for _, tc := range cases {
		pngBytes, err := renderItemBarcodePNG(tc.value, tc.symbology, 600, 140)
		if err != nil {
			t.Errorf("render %s %s: %v", tc.symbology, tc.value, err)
			continue
		}
		if len(pngBytes) == 0 {
			t.Errorf("render %s %s: empty output", tc.symbology, tc.value)
		}
	}
}
