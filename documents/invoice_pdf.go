// Package documents renders invoice snapshots as printable PDFs.
package documents

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"hotel-billing/models"
	"hotel-billing/money"
)

// Renderer draws single-invoice A4 PDFs. The QR code encodes the invoice
// number, optionally prefixed by VerifyURL.
type Renderer struct {
	VerifyURL string
	Currency  string
}

func NewRenderer(verifyURL string) *Renderer {
	return &Renderer{VerifyURL: strings.TrimRight(verifyURL, "/"), Currency: "Rs."}
}

func (r *Renderer) RenderInvoice(inv models.Invoice, hotel models.HotelSetting) ([]byte, error) {
	lines, err := inv.Lines()
	if err != nil {
		return nil, fmt.Errorf("invoice %s items: %w", inv.InvoiceNumber, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// --- Header ---
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(120, 10, tr(hotel.Name))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{hotel.Address, hotel.Phone, hotel.Email} {
		if strings.TrimSpace(line) != "" {
			pdf.Cell(120, 5, tr(line))
			pdf.Ln(5)
		}
	}
	if hotel.GSTIN != "" {
		pdf.Cell(120, 5, "GSTIN: "+hotel.GSTIN)
		pdf.Ln(5)
	}

	// --- QR ---
	payload := inv.InvoiceNumber
	if r.VerifyURL != "" {
		payload = r.VerifyURL + "/" + inv.InvoiceNumber
	}
	qrBytes, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 160, 12, 35, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(52)
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(5)

	// --- Invoice details ---
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, invoiceTitle(inv))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	detail(pdf, "Invoice No", inv.InvoiceNumber)
	detail(pdf, "Date", inv.BillDate.Format("02 Jan 2006 15:04"))
	detail(pdf, "Guest", tr(inv.GuestName))
	if inv.GuestPhone != "" {
		detail(pdf, "Phone", inv.GuestPhone)
	}
	if inv.RoomNumber != "" {
		room := inv.RoomNumber
		if inv.RoomType != "" {
			room += " (" + tr(inv.RoomType) + ")"
		}
		detail(pdf, "Room", room)
	}
	pdf.Ln(4)

	// --- Lines ---
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(95, 8, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Rate", "B", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.CellFormat(95, 7, tr(l.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", l.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, l.UnitPrice.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, l.Amount.String(), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)

	// --- Totals ---
	if !inv.RoomCharges.IsZero() {
		r.total(pdf, "Room charges", inv.RoomCharges, false)
	}
	if !inv.AdditionalGuestCharges.IsZero() {
		r.total(pdf, "Additional guests", inv.AdditionalGuestCharges, false)
	}
	if !inv.FoodCharges.IsZero() {
		r.total(pdf, "Food charges", inv.FoodCharges, false)
	}
	r.total(pdf, "Subtotal", inv.Subtotal(), false)
	if inv.GSTEnabled {
		r.total(pdf, fmt.Sprintf("GST @ %s%%", inv.GSTRate), inv.GSTAmount, false)
	}
	if !inv.RoundOff.IsZero() {
		r.total(pdf, "Round off", inv.RoundOff.Neg(), false)
	}
	r.total(pdf, "Total", inv.TotalAmount, true)

	if inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(inv.Notes), "", "L", false)
	}

	// --- Footer ---
	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "This is a computer generated invoice.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) total(pdf *gofpdf.Fpdf, label string, amount money.Money, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 11)
	pdf.CellFormat(145, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, r.Currency+" "+amount.String(), "", 1, "R", false, 0, "")
}

func detail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(30, 6, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func invoiceTitle(inv models.Invoice) string {
	switch {
	case inv.IsManual:
		return "INVOICE"
	case inv.Type == models.InvoiceRoom:
		return "ROOM INVOICE"
	case inv.Type == models.InvoiceFood:
		return "FOOD INVOICE"
	default:
		return "INVOICE"
	}
}
