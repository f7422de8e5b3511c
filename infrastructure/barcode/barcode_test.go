package barcode

import (
	"strings"
	"testing"
)

func TestClassifyRecognisedLengths(t *testing.T) {
	cases := []struct {
		raw  string
		want Symbology
	}{
		{"4006381333931", EAN13},
		{"036000291452", UPCA},
		{"96385074", EAN8},
	}
	for _, tc := range cases {
		info := Classify(tc.raw)
		if info.Symbology != tc.want {
			t.Fatalf("Classify(%q) symbology = %s, want %s", tc.raw, info.Symbology, tc.want)
		}
		if !info.Valid {
			t.Fatalf("Classify(%q) expected valid", tc.raw)
		}
		if info.Code != tc.raw {
			t.Fatalf("Classify(%q) code = %q", tc.raw, info.Code)
		}
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	info := Classify("  4006381333931\n")
	if info.Code != "4006381333931" {
		t.Fatalf("expected trimmed code, got %q", info.Code)
	}
	if info.Symbology != EAN13 {
		t.Fatalf("expected EAN-13, got %s", info.Symbology)
	}
}

func TestClassifyRejectsNonDigits(t *testing.T) {
	for _, raw := range []string{"", "ABC-123", "40063813339a1", "4006 381333931", "12345678901234567890x"} {
		info := Classify(raw)
		if info.Symbology != Unknown || info.Valid {
			t.Fatalf("Classify(%q) = %+v, want Unknown/invalid", raw, info)
		}
	}
}

func TestClassifyRejectsOtherDigitLengths(t *testing.T) {
	for _, n := range []int{1, 7, 9, 11, 14, 20} {
		raw := strings.Repeat("7", n)
		info := Classify(raw)
		if info.Symbology != Unknown || info.Valid {
			t.Fatalf("Classify(%d digits) = %+v, want Unknown/invalid", n, info)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	for _, raw := range []string{"4006381333931", "96385074", "garbage", " 036000291452 "} {
		first := Classify(raw)
		second := Classify(raw)
		if first != second {
			t.Fatalf("Classify(%q) not deterministic: %+v vs %+v", raw, first, second)
		}
		again := Classify(first.Code)
		if again != first {
			t.Fatalf("reclassifying normalized code changed result: %+v vs %+v", again, first)
		}
	}
}
