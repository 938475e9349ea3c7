package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// SequenceKind identifies a numbered document type
type SequenceKind string

const (
	SequenceInvoice    SequenceKind = "invoice"
	SequenceRepair     SequenceKind = "repair"
	SequenceQuotation  SequenceKind = "quotation"
	SequenceEvaluation SequenceKind = "evaluation"
)

// SequenceDef describes how codes of one kind are formatted and stored
type SequenceDef struct {
	Kind    SequenceKind
	Prefix  string
	Table   string
	Column  string
	Pattern *regexp.Regexp
}

var sequenceDefs = map[SequenceKind]SequenceDef{
	SequenceInvoice: {
		Kind:    SequenceInvoice,
		Prefix:  "SA1-",
		Table:   "invoices",
		Column:  "invoice_number",
		Pattern: regexp.MustCompile(`^SA1-(\d+)$`),
	},
	SequenceRepair: {
		Kind:    SequenceRepair,
		Prefix:  "R",
		Table:   "repairs",
		Column:  "repair_number",
		Pattern: regexp.MustCompile(`^R(\d+)$`),
	},
	SequenceQuotation: {
		Kind:    SequenceQuotation,
		Prefix:  "Q",
		Table:   "quotations",
		Column:  "quotation_number",
		Pattern: regexp.MustCompile(`^Q(\d+)$`),
	},
	SequenceEvaluation: {
		Kind:    SequenceEvaluation,
		Prefix:  "EV",
		Table:   "evaluations",
		Column:  "code",
		Pattern: regexp.MustCompile(`^EV(\d+)$`),
	},
}

// LookupSequence returns the definition for a kind
func LookupSequence(kind SequenceKind) (SequenceDef, bool) {
	def, ok := sequenceDefs[kind]
	return def, ok
}

// AllSequences returns every sequence definition in a stable order
func AllSequences() []SequenceDef {
	return []SequenceDef{
		sequenceDefs[SequenceEvaluation],
		sequenceDefs[SequenceQuotation],
		sequenceDefs[SequenceRepair],
		sequenceDefs[SequenceInvoice],
	}
}

// Format renders a sequence number, zero-padded to at least four digits
func (d SequenceDef) Format(n int) string {
	return fmt.Sprintf("%s%04d", d.Prefix, n)
}

// Parse extracts the sequence number from a code. Codes that do not match
// the kind's pattern report ok=false.
func (d SequenceDef) Parse(code string) (int, bool) {
	m := d.Pattern.FindStringSubmatch(code)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// HighestSequence returns the largest parsed number among codes, or 0
func (d SequenceDef) HighestSequence(codes []string) int {
	highest := 0
	for _, c := range codes {
		if n, ok := d.Parse(c); ok && n > highest {
			highest = n
		}
	}
	return highest
}
