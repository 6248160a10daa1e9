package manticore

import "testing"

func mustNumber(t *testing.T, text string) number {
	t.Helper()
	n, ok := parseNumber(text)
	if !ok {
		t.Fatalf("parseNumber(%q) failed", text)
	}
	return n
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text  string
		ok    bool
		exact bool
	}{
		{"42", true, true},
		{"-17", true, true},
		{"123456789012345678901234567890", true, true},
		{"1.25", true, false},
		{" 8 ", true, true},
		{"-2.5", true, false},
		{"abc", false, false},
		{"", false, false},
		{"-", false, false},
		{"1e3", false, false},
		{"inf", false, false},
		{"nan", false, false},
		{"0x1p4", false, false},
		{"+5", false, false},
	}
	for _, tt := range tests {
		n, ok := parseNumber(tt.text)
		if ok != tt.ok || (ok && n.isExact() != tt.exact) {
			t.Fatalf("parseNumber(%q) = %+v, %v", tt.text, n, ok)
		}
	}
}

func TestNumberOps(t *testing.T) {
	tests := []struct {
		name string
		f    func(a, b number) number
		a, b string
		want string
		kind Kind
	}{
		{"add", addNumbers, "2", "3", "5", Integer},
		{"add wide", addNumbers, "9223372036854775807", "1", "9223372036854775808", Integer},
		{"sub", subNumbers, "2", "3", "-1", Integer},
		{"mul", mulNumbers, "4294967296", "4294967296", "18446744073709551616", Integer},
		{"mul float", mulNumbers, "2.5", "2", "5", Integer},
		{"div even", divNumbers, "12", "4", "3", Integer},
		{"div uneven", divNumbers, "1", "4", "0.25", Float},
		{"div zero", divNumbers, "0", "0", "nan", Float},
		{"div neg zero", divNumbers, "-1", "0", "-inf", Float},
		{"mod", modNumbers, "10", "4", "2", Integer},
		{"mod float", modNumbers, "5.5", "2", "1.5", Float},
		{"pow", powNumbers, "3", "40", "12157665459056928801", Integer},
		{"pow negative", powNumbers, "2", "-1", "0.5", Float},
	}
	for _, tt := range tests {
		got := tt.f(mustNumber(t, tt.a), mustNumber(t, tt.b)).Token()
		if got.Text != tt.want || got.Kind != tt.kind {
			t.Fatalf("%s(%s, %s) = %v %q, want %v %q", tt.name, tt.a, tt.b, got.Kind, got.Text, tt.kind, tt.want)
		}
	}
}

func TestUnaryNumberOps(t *testing.T) {
	if got := negNumber(mustNumber(t, "5")).Token().Text; got != "-5" {
		t.Fatalf("neg 5 = %s", got)
	}
	if got := negNumber(mustNumber(t, "-2.5")).Token().Text; got != "2.5" {
		t.Fatalf("neg -2.5 = %s", got)
	}
	if got := sqrtNumber(mustNumber(t, "144")).Token(); got.Kind != Integer || got.Text != "12" {
		t.Fatalf("sqrt 144 = %v", got)
	}
	if got := sqrtNumber(mustNumber(t, "-1")).Token().Text; got != "nan" {
		t.Fatalf("sqrt -1 = %s", got)
	}
}

func TestCmpNumbers(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"2", "2.0", 0},
		{"3.5", "3", 1},
		{"100000000000000000000", "99999999999999999999", 1},
	}
	for _, tt := range tests {
		c, ok := cmpNumbers(mustNumber(t, tt.a), mustNumber(t, tt.b))
		if !ok || c != tt.want {
			t.Fatalf("cmpNumbers(%s, %s) = %d, %v", tt.a, tt.b, c, ok)
		}
	}
	nan := divNumbers(zeroNumber(), zeroNumber())
	if _, ok := cmpNumbers(nan, mustNumber(t, "1")); ok {
		t.Fatalf("NaN compared as ordered")
	}
}

func TestNonFiniteText(t *testing.T) {
	for _, text := range []string{"nan", "inf", "-inf"} {
		n, ok := parseNonFinite(text)
		if !ok || n.isExact() || n.Token().Text != text {
			t.Fatalf("parseNonFinite(%q) = %+v, %v", text, n, ok)
		}
	}
	if _, ok := parseNonFinite("Inf"); ok {
		t.Fatalf("parseNonFinite accepted Inf")
	}
}
