package lexer_test

import (
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/token"
)

func kinds(src string) ([]token.Kind, *diag.Sink) {
	sink := diag.NewSink()
	toks := lexer.New([]byte(src)).Tokenize(sink)
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out, sink
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, sink := kinds("var x = foo")
	want := []token.Kind{token.VAR, token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, toks[i], want[i])
		}
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
}

func TestTwoCharOperatorsResolveGreedily(t *testing.T) {
	toks, _ := kinds("a <= b && c")
	want := []token.Kind{token.IDENTIFIER, token.LE, token.IDENTIFIER, token.AND, token.IDENTIFIER, token.EOF}
	for i, k := range want {
		if toks[i] != k {
			t.Fatalf("token %d: got %v want %v", i, toks[i], k)
		}
	}
}

func TestRangeOperatorNotConfusedWithDot(t *testing.T) {
	toks, _ := kinds("a..b")
	want := []token.Kind{token.IDENTIFIER, token.RANGE, token.IDENTIFIER, token.EOF}
	for i, k := range want {
		if toks[i] != k {
			t.Fatalf("token %d: got %v want %v", i, toks[i], k)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	sink := diag.NewSink()
	toks := lexer.New([]byte("1 2.5 0x1F")).Tokenize(sink)
	if len(toks) != 4 { // 3 numbers + EOF
		t.Fatalf("got %d tokens: %v", len(toks), toks)
	}
	for _, tt := range toks[:3] {
		if tt.Kind != token.NUMBER {
			t.Fatalf("expected NUMBER, got %v", tt)
		}
	}
	if toks[2].Text != "0x1F" {
		t.Fatalf("expected hex literal text preserved, got %q", toks[2].Text)
	}
}

func TestUnterminatedStringIsReportedButTokenEmitted(t *testing.T) {
	sink := diag.NewSink()
	toks := lexer.New([]byte(`"abc`)).Tokenize(sink)
	if len(toks) != 2 {
		t.Fatalf("expected STRING + EOF, got %v", toks)
	}
	if toks[0].Kind != token.STRING {
		t.Fatalf("expected a STRING token despite the error, got %v", toks[0])
	}
	if sink.CountKind(diag.Lex) != 1 {
		t.Fatalf("expected exactly one lex diagnostic, got %d", sink.CountKind(diag.Lex))
	}
}

func TestNestedBlockComment(t *testing.T) {
	sink := diag.NewSink()
	toks := lexer.New([]byte("/* outer /* inner */ still outer */ x")).Tokenize(sink)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	if len(toks) != 2 || toks[0].Kind != token.IDENTIFIER {
		t.Fatalf("expected a single identifier after the nested comment, got %v", toks)
	}
}

func TestUnknownByteIsReportedAndSkipped(t *testing.T) {
	sink := diag.NewSink()
	toks := lexer.New([]byte("a $ b")).Tokenize(sink)
	if sink.CountKind(diag.Lex) != 1 {
		t.Fatalf("expected one lex error for '$', got %d", sink.CountKind(diag.Lex))
	}
	if len(toks) != 3 { // a, b, EOF -- the illegal byte is reported, not emitted as a token consumers rely on
		t.Fatalf("got %v", toks)
	}
}

func TestEveryStreamEndsInEOF(t *testing.T) {
	toks, _ := kinds("")
	if len(toks) != 1 || toks[0] != token.EOF {
		t.Fatalf("expected sole EOF token for empty input, got %v", toks)
	}
}
