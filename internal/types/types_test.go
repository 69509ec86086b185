package types

import "testing"

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"python", LangPython, true},
		{" JSX ", LangJSX, true},
		{"Cpp", LangCPP, true},
		{"cobol", LangPlaintext, false},
		{"", LangPlaintext, false},
		{"plaintext", LangPlaintext, false},
	}
	for _, c := range cases {
		got, ok := ParseLanguage(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseLanguage(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	if !(SevCritical.Rank() > SevHigh.Rank() && SevHigh.Rank() > SevMedium.Rank() && SevMedium.Rank() > SevWarning.Rank() && SevWarning.Rank() > SevInfo.Rank()) {
		t.Fatalf("unexpected severity ordering")
	}
	if Severity("bogus").Rank() != 0 {
		t.Fatalf("unknown severity should rank 0")
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("high"); err != nil || s != SevHigh {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := ParseSeverity("severe"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}

func TestSupportedNames(t *testing.T) {
	want := "python, javascript, typescript, jsx, php, html, cpp"
	if got := SupportedNames(); got != want {
		t.Fatalf("SupportedNames() = %q; want %q", got, want)
	}
}
