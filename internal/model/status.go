package model

import "strings"

// QuoteStatus is the lifecycle state of a saved quote.
type QuoteStatus string

const (
	StatusDraft     QuoteStatus = "DRAFT"
	StatusPending   QuoteStatus = "PENDING"
	StatusQuoted    QuoteStatus = "QUOTED"
	StatusCancelled QuoteStatus = "CANCELLED"
)

// legacyStatuses maps the Spanish values written by the first version of the
// cotizador so old records keep loading.
var legacyStatuses = map[string]QuoteStatus{
	"BORRADOR":  StatusDraft,
	"PENDIENTE": StatusPending,
	"COTIZADA":  StatusQuoted,
	"CANCELADA": StatusCancelled,
	"FINAL":     StatusQuoted,
}

// Valid reports whether s is one of the four known states.
func (s QuoteStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusQuoted, StatusCancelled:
		return true
	}
	return false
}

// ParseQuoteStatus accepts current and legacy spellings. ok is false for unknown values.
func ParseQuoteStatus(raw string) (QuoteStatus, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if s := QuoteStatus(v); s.Valid() {
		return s, true
	}
	s, ok := legacyStatuses[v]
	return s, ok
}

// UnmarshalText normalizes legacy values on read. Unknown values are kept
// verbatim so a bad record does not poison the whole collection.
func (s *QuoteStatus) UnmarshalText(b []byte) error {
	if parsed, ok := ParseQuoteStatus(string(b)); ok {
		*s = parsed
		return nil
	}
	*s = QuoteStatus(b)
	return nil
}

// ExportState tracks whether an order for the quote was handed to the ERP.
type ExportState string

const (
	ExportPending  ExportState = "PENDING"
	ExportExported ExportState = "EXPORTED"
)

// UnmarshalText accepts the legacy PENDIENTE/EXPORTADO values.
func (e *ExportState) UnmarshalText(b []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(b))) {
	case "EXPORTED", "EXPORTADO":
		*e = ExportExported
	default:
		*e = ExportPending
	}
	return nil
}

// ExportProfileGenericTXT is the only export layout the ERP accepts today.
const ExportProfileGenericTXT = "GENERIC_TXT"
