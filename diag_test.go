package manticore

import (
	"bytes"
	"testing"
)

func TestDiagnosticRender(t *testing.T) {
	lines := []string{"x = 1", "y = x +", "\tz = $"}
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{
			Diagnostic{Line: 2, Col: 7, Msg: "'+' needs 2 operand(s), found 1", Prev: "x"},
			"ERROR: on line 2, '+' needs 2 operand(s), found 1\ny = x +\n      ^\nprevious instruction: x\n",
		},
		{
			Diagnostic{Line: 3, Col: 6, Msg: "unrecognized character '$'"},
			"ERROR: on line 3, unrecognized character '$'\n\tz = $\n\t    ^\n",
		},
		{
			Diagnostic{Line: 9, Col: 1, Msg: "elsewhere"},
			"ERROR: on line 9, elsewhere\n",
		},
		{
			Diagnostic{Line: 1, Col: 40, Msg: "past the end"},
			"ERROR: on line 1, past the end\nx = 1\n     ^\n",
		},
	}
	for _, tt := range tests {
		if got := tt.d.Render(lines); got != tt.want {
			t.Fatalf("Render(%+v) =\n%q\nwant\n%q", tt.d, got, tt.want)
		}
	}
}

func TestDiagnosticError(t *testing.T) {
	d := Diagnostic{Kind: Runtime, Line: 4, Msg: "boom"}
	if got := d.Error(); got != "on line 4, boom" {
		t.Fatalf("Error() = %q", got)
	}
	if Runtime.String() != "runtime" || TypeMismatch.String() != "type" {
		t.Fatalf("kind names = %s %s", Runtime, TypeMismatch)
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.SetSource("a\nb +")
	r.Reportf(Arity, Token{Line: 2, Col: 3}, "b", "'%s' needs %d operand(s)", Add, 2)
	want := "ERROR: on line 2, '+' needs 2 operand(s)\nb +\n  ^\nprevious instruction: b\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
	if d := r.Diagnostics(); len(d) != 1 || d[0].Kind != Arity {
		t.Fatalf("Diagnostics() = %v", d)
	}
	r.Reset()
	if len(r.Diagnostics()) != 0 {
		t.Fatalf("Reset kept diagnostics")
	}
}

func TestNilReporterOutputDiscards(t *testing.T) {
	r := NewReporter(nil)
	r.Report(Diagnostic{Line: 1, Msg: "quiet"})
	if len(r.Diagnostics()) != 1 {
		t.Fatalf("diagnostic not recorded")
	}
}

func TestDiagnosticCaretCountsRunes(t *testing.T) {
	src := `"é" $ 1`
	_, diags := Tokenize(src)
	if len(diags) != 1 || diags[0].Col != 5 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	want := "ERROR: on line 1, unrecognized character '$'\n\"é\" $ 1\n    ^\n"
	if got := diags[0].Render([]string{src}); got != want {
		t.Fatalf("Render =\n%q\nwant\n%q", got, want)
	}
}
