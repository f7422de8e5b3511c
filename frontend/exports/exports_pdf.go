package exports

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/jung-kurt/gofpdf"
)

func renderSessionReportPDF(data SessionReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Stocktake Session Report", false)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Stocktake Session Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Shop: "+data.ShopHost, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Items counted: %d    Units added: %d", len(data.Items), data.TotalAdded), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(78, 8, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(44, 8, "Barcode", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Added", "B", 0, "R", false, 0, "")
	pdf.CellFormat(38, 8, "Stock", "B", 1, "R", false, 0, "")

	for i, item := range data.Items {
		name := item.ProductName
		if item.Reference != "" {
			name = name + " [" + item.Reference + "]"
		}
		name = truncateName(name)

		rowY := pdf.GetY()
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(78, 14, name, "", 0, "L", false, 0, "")

		barcodePNG, err := renderItemBarcodePNG(item.Barcode, item.Symbology, 600, 140)
		if err == nil {
			opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			imageName := fmt.Sprintf("item-barcode-%d", i)
			pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
			pdf.ImageOptions(imageName, pdf.GetX(), rowY+2, 40, 9, false, opt, 0, "")
		}
		pdf.CellFormat(44, 14, "", "", 0, "L", false, 0, "")

		pdf.CellFormat(20, 14, fmt.Sprintf("+%d", item.QuantityAdded), "", 0, "R", false, 0, "")
		pdf.CellFormat(38, 14, fmt.Sprintf("%d -> %d", item.StockBefore, item.StockAfter), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetX(pdf.GetX() + 78)
		pdf.CellFormat(44, 4, item.Barcode+" "+item.Symbology, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	if len(data.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 10, "No items were counted in this session.", "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderItemBarcodePNG encodes the code in its native symbology. UPC-A is an
// EAN-13 with a leading zero. Codes that fail checksum validation fall back
// to Code 128 so the report still renders something scannable.
func renderItemBarcodePNG(value, symbology string, width, height int) ([]byte, error) {
	var code barcode.Barcode
	var err error
	switch strings.ToUpper(symbology) {
	case "EAN-13", "EAN-8":
		code, err = ean.Encode(value)
	case "UPC-A":
		code, err = ean.Encode("0" + value)
	default:
		code, err = code128.Encode(value)
	}
	if err != nil {
		code, err = code128.Encode(value)
		if err != nil {
			return nil, err
		}
	}

	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// truncateName shortens long product names on rune boundaries so multi-byte
// characters are never split.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= 48 {
		return name
	}
	return string(runes[:45]) + "..."
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
