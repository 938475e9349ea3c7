package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "zero dollars"},
		{1, "one dollar"},
		{15, "fifteen dollars"},
		{40, "forty dollars"},
		{120, "one hundred and twenty dollars"},
		{1110, "one thousand one hundred and ten dollars"},
		{1000000, "one million dollars"},
		{2000005, "two million five dollars"},
		{1250.5, "one thousand two hundred and fifty dollars and fifty cents"},
		{0.01, "zero dollars and one cent"},
		{99.999, "one hundred dollars"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberToWords(tt.amount))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 5, 2024", FormatDate(&d))
	assert.Equal(t, "N/A", FormatDate(nil))
	assert.Equal(t, "N/A", FormatDate(&time.Time{}))
}

func TestMoneyAndGrouping(t *testing.T) {
	assert.Equal(t, "$1,250.00", Money(1250))
	assert.Equal(t, "$0.50", Money(0.5))
	assert.Equal(t, "-$100.00", Money(-100))
	assert.Equal(t, "1,234,567", Grouped(1234567, 0))
	assert.Equal(t, "999", Grouped(999, 0))
	assert.Equal(t, "89,500", LBP(89500))
	assert.Equal(t, "9,845,000", LBP(110*89500))
	assert.Equal(t, "1,000.25", LBP(1000.25))
}

func TestLogoTypeFromPath(t *testing.T) {
	assert.Equal(t, "PNG", LogoTypeFromPath("assets/logo.PNG"))
	assert.Equal(t, "JPG", LogoTypeFromPath("logo.jpeg"))
	assert.Equal(t, "", LogoTypeFromPath("logo.svg"))
}

func testRenderer() *Renderer {
	return NewRenderer(Letterhead{
		Name:      "MedCare Solutions",
		ShortName: "MCS",
		Address:   "Hazmieh, Mar Roukouz Center 4th Floor",
		Location:  "Beirut Lebanon",
		Phone:     "+961 03 788345",
		WhatsApp:  "+961 70 072401",
		Email:     "info@medcare-solutions.com",
	})
}

func TestRenderQuotation(t *testing.T) {
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	validity := now.AddDate(0, 0, 30)

	out, err := testRenderer().RenderQuotation(QuotationData{
		Number:         "Q-0001",
		Date:           &now,
		OfferValidity:  &validity,
		Customer:       Party{Name: "Hôtel-Dieu de France", Phone: "+961 1 615300"},
		ScopeName:      "Gastroscope",
		Make:           "Olympus",
		ModelNumber:    "GIF-H190",
		SerialNumber:   "2400123",
		DeliveryPeriod: 14,
		ServiceType:    "Repair",
		Problems:       "Broken angulation wire, leaking bending rubber and fluid invasion in the light guide",
		Price:          2500,
		Discount:       250,
		Notes:          "Loaner scope available on request",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInvoice(t *testing.T) {
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 30)

	out, err := testRenderer().RenderInvoice(InvoiceData{
		Number:       "INV-0001",
		MofNumber:    "513353-601",
		Date:         now,
		DueDate:      &due,
		Customer:     Party{Name: "AUBMC", MofNumber: "998877"},
		ServiceType:  "Repair",
		Manufacturer: "Olympus",
		ScopeName:    "Colonoscope",
		ModelNumber:  "CF-HQ190L",
		SerialNumber: "2211009",
		UnitPrice:    1000,
		TotalPrice:   1000,
		Tax:          110,
		TotalDue:     1110,
		ShowTVAInLBP: true,
		DollarRate:   89500,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderWithInvalidLogoFails(t *testing.T) {
	r := NewRenderer(Letterhead{Name: "MCS", Logo: []byte("not an image"), LogoType: "PNG"})
	_, err := r.RenderInvoice(InvoiceData{Number: "INV-0002", Date: time.Now().UTC()})
	assert.Error(t, err)
}
