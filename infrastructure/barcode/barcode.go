package barcode

import "strings"

// Symbology is the barcode encoding standard of a scanned code.
type Symbology string

const (
	EAN13   Symbology = "EAN-13"
	UPCA    Symbology = "UPC-A"
	EAN8    Symbology = "EAN-8"
	Unknown Symbology = "UNKNOWN"
)

// Info is a classified scan: the trimmed code, its detected symbology and
// whether the symbology is one the pipeline recognises. Unknown codes are
// still searched against the remote shop as raw strings.
type Info struct {
	Code      string
	Symbology Symbology
	Valid     bool
}

// Classify detects the symbology of raw scanned text from its digit count.
// Anything non-numeric, or numeric of an unrecognised length, is Unknown.
func Classify(raw string) Info {
	code := strings.TrimSpace(raw)
	sym := detect(code)
	return Info{
		Code:      code,
		Symbology: sym,
		Valid:     sym != Unknown,
	}
}

func detect(code string) Symbology {
	if code == "" || !allDigits(code) {
		return Unknown
	}
	switch len(code) {
	case 13:
		return EAN13
	case 12:
		return UPCA
	case 8:
		return EAN8
	default:
		return Unknown
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
