package manticore

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

// number is a parsed numeric operand: exact when the text was an
// integer, float64 otherwise.
type number struct {
	exact *big.Int
	float float64
}

// maxExactExponent bounds integer pow before it falls back to floats.
const maxExactExponent = 4096

// parseNumber reads the textual value of a token as a number. Only
// numerals the lexer would accept, optionally negated, qualify.
func parseNumber(text string) (number, bool) {
	text = strings.TrimSpace(text)
	if !isNumeral(strings.TrimPrefix(text, "-")) {
		return number{}, false
	}
	z := new(big.Int)
	if _, ok := z.SetString(text, 10); ok {
		return number{exact: z}, true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return number{float: f}, true
	}
	return number{}, false
}

// parseNonFinite reads the texts formatFloat gives to non-finite results.
func parseNonFinite(text string) (number, bool) {
	switch text {
	case "nan":
		return floatNumber(math.NaN()), true
	case "inf":
		return floatNumber(math.Inf(1)), true
	case "-inf":
		return floatNumber(math.Inf(-1)), true
	}
	return number{}, false
}

func exactNumber(z *big.Int) number { return number{exact: z} }
func zeroNumber() number            { return number{exact: new(big.Int)} }
func floatNumber(f float64) number  { return number{float: f} }

func (n number) isExact() bool { return n.exact != nil }

func (n number) toFloat() float64 {
	if n.exact != nil {
		f, _ := new(big.Float).SetInt(n.exact).Float64()
		return f
	}
	return n.float
}

func (n number) arith() goarith.Number {
	if n.exact != nil {
		return goarith.AsNumber(n.exact)
	}
	return goarith.AsNumber(n.float)
}

// fromArith converts an integer result of goarith back to big.Int.
func fromArith(x goarith.Number) number {
	if n, ok := parseNumber(x.String()); ok {
		return n
	}
	return floatNumber(math.NaN())
}

// Token renders the number in its canonical textual form.
func (n number) Token() Token {
	if n.exact != nil {
		return Lit(Integer, n.exact.String())
	}
	text := formatFloat(n.float)
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Lit(Integer, text)
	}
	return Lit(Float, text)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//----------------------------------------------------------------------

func addNumbers(a, b number) number {
	if a.isExact() && b.isExact() {
		return fromArith(a.arith().Add(b.arith()))
	}
	return floatNumber(a.toFloat() + b.toFloat())
}

func subNumbers(a, b number) number {
	if a.isExact() && b.isExact() {
		return fromArith(a.arith().Sub(b.arith()))
	}
	return floatNumber(a.toFloat() - b.toFloat())
}

func mulNumbers(a, b number) number {
	if a.isExact() && b.isExact() {
		return fromArith(a.arith().Mul(b.arith()))
	}
	return floatNumber(a.toFloat() * b.toFloat())
}

// divNumbers keeps integer quotients exact when they divide evenly.
func divNumbers(a, b number) number {
	if a.isExact() && b.isExact() && b.exact.Sign() != 0 {
		q, r := new(big.Int).QuoRem(a.exact, b.exact, new(big.Int))
		if r.Sign() == 0 {
			return exactNumber(q)
		}
	}
	return floatNumber(a.toFloat() / b.toFloat())
}

// modNumbers takes the sign of the dividend.
func modNumbers(a, b number) number {
	if a.isExact() && b.isExact() && b.exact.Sign() != 0 {
		return exactNumber(new(big.Int).Rem(a.exact, b.exact))
	}
	return floatNumber(math.Mod(a.toFloat(), b.toFloat()))
}

func powNumbers(a, b number) number {
	if a.isExact() && b.isExact() && b.exact.Sign() >= 0 && b.exact.Cmp(big.NewInt(maxExactExponent)) <= 0 {
		return exactNumber(new(big.Int).Exp(a.exact, b.exact, nil))
	}
	return floatNumber(math.Pow(a.toFloat(), b.toFloat()))
}

func sqrtNumber(a number) number {
	if a.isExact() && a.exact.Sign() >= 0 {
		s := new(big.Int).Sqrt(a.exact)
		if new(big.Int).Mul(s, s).Cmp(a.exact) == 0 {
			return exactNumber(s)
		}
	}
	return floatNumber(math.Sqrt(a.toFloat()))
}

func negNumber(a number) number {
	if a.isExact() {
		return fromArith(goarith.AsNumber(new(big.Int)).Sub(a.arith()))
	}
	return floatNumber(-a.float)
}

// cmpNumbers orders a and b; ok is false when either is NaN.
func cmpNumbers(a, b number) (c int, ok bool) {
	if math.IsNaN(a.toFloat()) || math.IsNaN(b.toFloat()) {
		return 0, false
	}
	return a.arith().Cmp(b.arith()), true
}
