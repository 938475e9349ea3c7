package pdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ones  = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	teens = []string{"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
		"sixteen", "seventeen", "eighteen", "nineteen"}
	tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// FormatDate renders a date as "Jan 2, 2006", or "N/A" when missing
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// NumberToWords spells a dollar amount in English, e.g.
// 1250.5 -> "one thousand two hundred and fifty dollars and fifty cents"
func NumberToWords(amount float64) string {
	if amount < 0 {
		amount = -amount
	}
	totalCents := int64(math.Round(amount * 100))
	dollars := totalCents / 100
	cents := totalCents % 100

	result := spell(dollars) + " dollar"
	if dollars != 1 {
		result += "s"
	}
	if cents > 0 {
		result += " and " + spell(cents) + " cent"
		if cents != 1 {
			result += "s"
		}
	}
	return result
}

func spell(n int64) string {
	if n == 0 {
		return "zero"
	}

	var parts []string
	if billions := n / 1_000_000_000; billions > 0 {
		parts = append(parts, spell(billions)+" billion")
		n %= 1_000_000_000
	}
	if millions := n / 1_000_000; millions > 0 {
		parts = append(parts, belowThousand(millions)+" million")
		n %= 1_000_000
	}
	if thousands := n / 1000; thousands > 0 {
		parts = append(parts, belowThousand(thousands)+" thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	default:
		if n%100 == 0 {
			return ones[n/100] + " hundred"
		}
		return ones[n/100] + " hundred and " + belowThousand(n%100)
	}
}

// Money formats a dollar amount with two decimals, e.g. "$1,250.00"
func Money(amount float64) string {
	if amount < 0 {
		return "-$" + Grouped(-amount, 2)
	}
	return "$" + Grouped(amount, 2)
}

// Grouped formats n with thousands separators and a fixed number of decimals.
// Trailing zero decimals are dropped when decimals is 0.
func Grouped(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// LBP formats a Lebanese pound amount, keeping up to two decimals only when present
func LBP(n float64) string {
	rounded := math.Round(n*100) / 100
	if rounded == math.Trunc(rounded) {
		return Grouped(rounded, 0)
	}
	return Grouped(rounded, 2)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func days(n int) string {
	return fmt.Sprintf("%d days", n)
}
