package manticore

import "testing"

func shunted(t *testing.T, src string) *Body {
	t.Helper()
	tokens, diags := Tokenize(src)
	if len(diags) != 0 {
		t.Fatalf("Tokenize(%q) diagnostics: %v", src, diags)
	}
	seq, diags := Transform(tokens)
	if len(diags) != 0 {
		t.Fatalf("Transform(%q) diagnostics: %v", src, diags)
	}
	return seq
}

func TestTransformOrder(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`1 + 2 * 4 + 7`, `1 2 4 * + 7 +`},
		{`(1 + 2) * 4`, `1 2 + 4 *`},
		{`2 ^ 3 ^ 2`, `2 3 2 pow pow`},
		{`-5 + 2`, `5 neg 2 +`},
		{`1 - -2`, `1 2 neg -`},
		{`x = 5`, `x 5 var`},
		{`name := "roxas"`, `name "roxas" var`},
		{`print(1)`, `1 print`},
		{`println "hi"`, `"hi" println`},
		{`f(1, 2)`, `1 2 f call`},
		{`f()`, `f call`},
		{`@g(3)`, `3 g invoke`},
		{`&g()`, `g macro`},
		{`r = @add(3, 4)`, `r 3 4 add invoke var`},
		{`a.b.c`, `a b . c .`},
		{`n = dog.name`, `n dog name . var`},
		{`obj.run(21)`, `21 obj run . call`},
		{`add = { a b ~ a + b }`, `add {a b ~ a b +} var`},
		{`if(x gtr 1, { print("big") })`, `x 1 gtr {"big" print} if`},
		{`if x gtr 1 { print("big") }`, `x 1 gtr {"big" print} if`},
		{`if(c, { 1 }, { 2 })`, `c {1} {2} if`},
		{`loop(2, { y = 5 })`, `2 {y 5 var} loop`},
		{`for(xs, i, { total = total + i })`, `xs i {total total i + var} for`},
		{`not(false)`, `false not`},
		{`!a | b`, `a not b or`},
		{`a and b or c`, `a b c or and`},
		{`equ(1, 1)`, `1 1 equ`},
		{`1 2 3 a b c set`, `1 2 3 a b c set`},
		{`x dup`, `x dup`},
		{`x = readln`, `x readln var`},
		{`[1, -2, 3]`, `[1 -2 3]`},
		{`xs = [{ 1 + 2 }, 4]`, `xs [{1 2 +} 4] var`},
		{`a = 1; b = 2`, `a 1 var b 2 var`},
		{`f = let({ s ~ p + s })`, `f {s ~ p s +} let var`},
		{`command("ls", ["-l"])`, `"ls" ["-l"] command`},
	}
	for _, tt := range tests {
		got := joinTokens(shunted(t, tt.src).Items())
		if got != tt.want {
			t.Fatalf("Transform(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestTransformParamNames(t *testing.T) {
	seq := shunted(t, `a b ~ a`).Items()
	if len(seq) != 2 || seq[0].Op != Param {
		t.Fatalf("seq = %v", seq)
	}
	names := seq[0].Body.Items()
	if len(names) != 2 || names[0].Text != "a" || names[1].Text != "b" {
		t.Fatalf("param names = %v", names)
	}
}

func TestTransformIdempotent(t *testing.T) {
	srcs := []string{
		`1 + 2 * 4 + 7`,
		`x = { a b ~ if(a gtr b, { a }, { b }) }; x(3, 4)`,
		`n = dog.name; r = @dog.run(1, [2, -3])`,
		`for([1, 2], i, { println(i) })`,
		`f = let({ s ~ prefix + s }); print(f("x"))`,
		`not true and false`,
	}
	for _, src := range srcs {
		once := shunted(t, src)
		twice, diags := Transform(once)
		if len(diags) != 0 {
			t.Fatalf("Transform(Transform(%q)) diagnostics: %v", src, diags)
		}
		if !MakeBlock(once.Items()).Equal(MakeBlock(twice.Items())) {
			t.Fatalf("Transform(%q) not stable:\n once  %s\n twice %s", src, joinTokens(once.Items()), joinTokens(twice.Items()))
		}
	}
}

func TestTransformDiagnostics(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`print(1`, `missing ')' for '('`},
		{`1 + 2)`, `missing '(' for ')'`},
	}
	for _, tt := range tests {
		tokens, _ := Tokenize(tt.src)
		_, diags := Transform(tokens)
		if len(diags) != 1 || diags[0].Msg != tt.msg || diags[0].Kind != Structural {
			t.Fatalf("Transform(%q) diagnostics = %v, want %q", tt.src, diags, tt.msg)
		}
	}
}

func TestTransformNestedBlockDiagnostics(t *testing.T) {
	tokens, _ := Tokenize(`f = { print(1 }`)
	_, diags := Transform(tokens)
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v", diags)
	}
}
