// Package pdf renders quotation and invoice documents with fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 20.0
	tableWidth  = 170.0
	minRowH     = 8.0
	lineH       = 5.0
	wrapAt      = 25
	pageBreakAt = 272.0
)

var (
	brandBlue = [3]int{37, 139, 209}
	navy      = [3]int{6, 57, 112}
	rowTint   = [3]int{248, 249, 250}
)

// Letterhead is the shop identity printed at the top of every document
type Letterhead struct {
	Name        string
	ShortName   string
	Address     string
	Location    string
	Phone       string
	WhatsApp    string
	Email       string
	SalesPerson string
	ShippedVia  string
	// Logo is PNG or JPEG bytes; LogoType is "PNG" or "JPG"
	Logo     []byte
	LogoType string
}

// LogoTypeFromPath derives the fpdf image type from a file name
func LogoTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".png":
		return "PNG"
	default:
		return ""
	}
}

// Party is the customer block ("To:") of a document
type Party struct {
	Name      string
	Phone     string
	Address   string
	MofNumber string
}

// QuotationData is everything printed on a quotation
type QuotationData struct {
	Number         string
	Date           *time.Time
	OfferValidity  *time.Time
	Customer       Party
	ScopeName      string
	Make           string
	ModelNumber    string
	SerialNumber   string
	ReceivedDate   *time.Time
	DeliveryPeriod int
	ServiceType    string
	Problems       string
	Price          float64
	Discount       float64
	Notes          string
}

// InvoiceData is everything printed on an invoice
type InvoiceData struct {
	Number       string
	MofNumber    string
	Date         time.Time
	DueDate      *time.Time
	Customer     Party
	ServiceType  string
	Manufacturer string
	ScopeName    string
	ModelNumber  string
	SerialNumber string
	UnitPrice    float64
	TotalPrice   float64
	Tax          float64
	TotalDue     float64
	ShowTVAInLBP bool
	DollarRate   float64
}

// Renderer builds A4 documents for one letterhead
type Renderer struct {
	head Letterhead
}

// NewRenderer creates a renderer
func NewRenderer(head Letterhead) *Renderer {
	if head.SalesPerson == "" {
		head.SalesPerson = "MCS Sales"
	}
	if head.ShippedVia == "" {
		head.ShippedVia = "MCS Endoscopy"
	}
	return &Renderer{head: head}
}

type page struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (r *Renderer) newPage(title string) *page {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.SetCompression(true)
	doc.SetTitle(title, true)
	doc.SetCreator(r.head.Name, true)
	doc.AddPage()
	return &page{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
}

func (p *page) text(x, y float64, s string) {
	p.doc.Text(x, y, p.tr(s))
}

func (p *page) color(c [3]int) {
	p.doc.SetTextColor(c[0], c[1], c[2])
}

func (p *page) fill(c [3]int) {
	p.doc.SetFillColor(c[0], c[1], c[2])
}

// header draws the logo, company block and title. Returns the next Y.
func (r *Renderer) header(p *page, title string) float64 {
	d := p.doc

	if len(r.head.Logo) > 0 && r.head.LogoType != "" {
		opts := fpdf.ImageOptions{ImageType: r.head.LogoType}
		d.RegisterImageOptionsReader("logo", opts, bytes.NewReader(r.head.Logo))
		d.ImageOptions("logo", 20, 15, 30, 30, false, opts, 0, "")
	} else {
		d.SetDrawColor(navy[0], navy[1], navy[2])
		d.SetLineWidth(0.5)
		d.Rect(20, 15, 30, 30, "D")
		d.SetFont("Helvetica", "B", 14)
		p.color(navy)
		label := r.head.ShortName
		if label == "" {
			label = r.head.Name
		}
		w := d.GetStringWidth(label)
		p.text(35-w/2, 32, label)
	}

	d.SetFont("Helvetica", "B", 10)
	p.color([3]int{0, 0, 0})
	p.text(55, 15, r.head.Name)
	d.SetFont("Helvetica", "", 10)
	p.text(55, 20, r.head.Address)
	p.text(55, 25, r.head.Phone)
	if r.head.WhatsApp != "" {
		p.text(55, 30, r.head.WhatsApp+" (WhatsApp)")
	}
	p.text(55, 35, r.head.Email)
	p.text(55, 40, r.head.Location)

	d.SetFont("Helvetica", "B", 24)
	p.color(brandBlue)
	p.text(150, 25, title)

	return 50
}

// customerBox draws the shaded "To:" block with a navy rule on the left
func (p *page) customerBox(y float64, lines []string) float64 {
	d := p.doc
	h := 10 + float64(len(lines))*5

	p.fill(rowTint)
	d.Rect(20, y, 170, h, "F")
	d.SetDrawColor(navy[0], navy[1], navy[2])
	d.SetLineWidth(2)
	d.Line(20, y, 20, y+h)
	d.SetLineWidth(0.2)

	d.SetFont("Helvetica", "B", 10)
	p.color(navy)
	p.text(25, y+8, "To:")

	d.SetFont("Helvetica", "", 10)
	p.color([3]int{0, 0, 0})
	for i, line := range lines {
		x := 25.0
		if i == 0 {
			x = 35
		}
		p.text(x, y+8+float64(i)*5, line)
	}
	return y + h + 10
}

// table draws a header row and body rows. Cells longer than wrapAt characters wrap.
// Returns the Y below the table plus spacing.
func (p *page) table(y float64, headers []string, rows [][]string, widths []float64) float64 {
	d := p.doc
	if widths == nil {
		widths = make([]float64, len(headers))
		for i := range widths {
			widths[i] = tableWidth / float64(len(headers))
		}
	}

	p.fill(brandBlue)
	d.Rect(pageMargin, y, tableWidth, minRowH, "F")
	d.SetFont("Helvetica", "B", 9)
	p.color([3]int{255, 255, 255})
	x := pageMargin
	for i, h := range headers {
		p.text(x+2, y+6, h)
		x += widths[i]
	}
	y += minRowH

	d.SetFont("Helvetica", "", 9)
	p.color([3]int{0, 0, 0})
	for ri, row := range rows {
		cells := make([][]string, len(row))
		rowH := minRowH
		for i, cell := range row {
			if len(cell) > wrapAt {
				cells[i] = p.wrap(cell, widths[i]-4)
				rowH = max(rowH, float64(len(cells[i]))*lineH)
			} else {
				cells[i] = []string{cell}
			}
		}

		if y+rowH > pageBreakAt {
			d.AddPage()
			y = pageMargin
		}

		if ri%2 == 0 {
			p.fill(rowTint)
			d.Rect(pageMargin, y, tableWidth, rowH, "F")
		}

		x := pageMargin
		for i, lines := range cells {
			for li, line := range lines {
				p.text(x+2, y+6+float64(li)*lineH, line)
			}
			x += widths[i]
		}
		y += rowH
	}

	return y + 10
}

func (p *page) wrap(s string, width float64) []string {
	raw := p.doc.SplitLines([]byte(p.tr(s)), width)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, string(l))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// terms draws the titled bullet list at the bottom of a document
func (p *page) terms(y float64, items []string) {
	d := p.doc
	if y+20+float64(len(items))*5 > pageBreakAt+15 {
		d.AddPage()
		y = pageMargin
	}
	d.SetFont("Helvetica", "B", 12)
	p.color(brandBlue)
	p.text(20, y+10, "Payment Terms and Conditions")

	d.SetFont("Helvetica", "", 10)
	p.color([3]int{0, 0, 0})
	for i, item := range items {
		p.text(20, y+20+float64(i)*5, "- "+item)
	}
}

func output(p *page) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderQuotation produces the quotation PDF
func (r *Renderer) RenderQuotation(data QuotationData) ([]byte, error) {
	p := r.newPage("Quotation " + data.Number)
	y := r.header(p, "QUOTATION")

	p.doc.SetFont("Helvetica", "", 10)
	p.color([3]int{0, 0, 0})
	p.text(150, y-15, "Quotation#: "+data.Number)
	p.text(150, y-10, "Sales Person: "+r.head.SalesPerson)
	p.text(150, y-5, "Offer Validity: "+FormatDate(data.OfferValidity))
	p.text(150, y, "Date: "+FormatDate(data.Date))
	y += 10

	y = p.customerBox(y, []string{
		orNA(data.Customer.Name),
		"Phone: " + orNA(data.Customer.Phone),
		"Location: " + orNA(data.Customer.Address),
	})

	y = p.table(y,
		[]string{"Name", "Make", "Model #", "Serial #", "Date Received", "Delivery Period"},
		[][]string{{
			data.ScopeName,
			orNA(data.Make),
			data.ModelNumber,
			data.SerialNumber,
			FormatDate(data.ReceivedDate),
			days(data.DeliveryPeriod),
		}},
		nil,
	)

	priceRows := [][]string{{
		data.ServiceType + " - " + data.Problems,
		Money(data.Price),
		Money(data.Price),
	}}
	if data.Discount > 0 {
		priceRows = append(priceRows, []string{"Discount", Money(-data.Discount), Money(-data.Discount)})
	}
	priceRows = append(priceRows, []string{"TOTAL", "", Money(data.Price - data.Discount)})

	y = p.table(y,
		[]string{"Description", "Unit Price", "Total Price"},
		priceRows,
		[]float64{tableWidth * 0.6, tableWidth * 0.2, tableWidth * 0.2},
	)

	terms := []string{
		"The payment is to 100% upon delivery",
		"The payment is to be in Cash USD",
		fmt.Sprintf("Repair time frame: %d days after confirmation", data.DeliveryPeriod),
		"TVA will be added to the total amount",
		"Above equipment is covered with 3 months limited warranty",
		"Price terms at customer's site",
	}
	if data.Notes != "" {
		terms = append(terms, data.Notes)
	}
	p.terms(y, terms)

	return output(p)
}

// RenderInvoice produces the invoice PDF
func (r *Renderer) RenderInvoice(data InvoiceData) ([]byte, error) {
	p := r.newPage("Invoice " + data.Number)
	y := r.header(p, "INVOICE")

	p.doc.SetFont("Helvetica", "", 10)
	p.color([3]int{0, 0, 0})
	p.text(150, y-15, "Invoice#: "+data.Number)
	p.text(150, y-10, "MOF#: "+data.MofNumber)
	p.text(150, y-5, "Date: "+FormatDate(&data.Date))
	y += 10

	y = p.customerBox(y, []string{
		orNA(data.Customer.Name),
		"Phone: " + orNA(data.Customer.Phone),
		"Location: " + orNA(data.Customer.Address),
		"MOF#: " + orNA(data.Customer.MofNumber),
	})

	y = p.table(y,
		[]string{"Service", "Sales Person", "Shipped Via", "Due Date", "Payment Type"},
		[][]string{{
			orNA(data.ServiceType),
			r.head.SalesPerson,
			r.head.ShippedVia,
			FormatDate(data.DueDate),
			"Pre-paid",
		}},
		nil,
	)

	tva := Money(data.Tax)
	if data.ShowTVAInLBP {
		tva += " / " + LBP(data.Tax*data.DollarRate) + " LBP"
	}

	y = p.table(y,
		[]string{"Manufacturer", "Scope Name", "Model #", "Serial #", "Unit Price", "Total Price"},
		[][]string{
			{orNA(data.Manufacturer), data.ScopeName, data.ModelNumber, data.SerialNumber, Money(data.UnitPrice), Money(data.TotalPrice)},
			{"", "", "", "", "Subtotal", Money(data.TotalPrice)},
			{"", "", "", "", "TVA (11%)", tva},
			{"", "", "", "", "Total Due", Money(data.TotalDue)},
		},
		nil,
	)

	p.terms(y, []string{
		"Cash on Delivery",
		"TVA Syrafa Rate: $1 = " + LBP(data.DollarRate) + " LBP",
		"Total Amount Due: " + NumberToWords(data.TotalDue),
	})

	return output(p)
}
