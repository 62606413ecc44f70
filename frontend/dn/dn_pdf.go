package dn

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// renderDNDocumentPDF produces the printable delivery-note document handed to
// the dock: barcoded DN number, supplier header and the declared lines.
func renderDNDocumentPDF(data DNDocumentData, printedAt time.Time) ([]byte, error) {
	if strings.TrimSpace(data.DNNumber) == "" {
		return nil, fmt.Errorf("delivery note number is required")
	}

	barcodePNG, err := renderCode128PNG(data.DNNumber, 1200, 260)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Delivery Note "+data.DNNumber, false)
	pdf.AddPage()

	supplierName := strings.TrimSpace(data.SupplierName)
	if supplierName == "" {
		supplierName = "Unknown Supplier"
	}

	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, "DELIVERY NOTE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 36)
	pdf.CellFormat(0, 18, data.DNNumber, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 7, "Supplier: "+supplierName+" ("+strings.TrimSpace(data.BPCode)+")", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Printed: "+printedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "dn-barcode-" + data.DNNumber
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pageW, _ := pdf.GetPageSize()
	imgW := 150.0
	imgH := 34.0
	x := (pageW - imgW) / 2
	y := 72.0
	pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

	pdf.SetY(y + imgH + 4)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, data.DNNumber, "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 8, "Part No", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Declared", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Scanned", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Per Box", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range data.Items {
		pdf.CellFormat(70, 8, item.PartNo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", item.TotalQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", item.ScannedQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", item.QtyPerBox), "1", 1, "R", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
