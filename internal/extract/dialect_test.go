package extract

import "testing"

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"data.csv":            "csv",
		"/a/b/AMT1.TXT":       "txt",
		"archive.tar.csv":     "tar.csv",
		"README":              NoExtension,
		"/dir.with.dots/file": NoExtension,
	}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDialectFor(t *testing.T) {
	exts := []string{"csv", ".tsv"}
	if got := DialectFor("obs.CSV", exts); got != Comma {
		t.Fatalf("csv should use comma dialect, got %v", got)
	}
	if got := DialectFor("obs.tsv", exts); got != Comma {
		t.Fatalf("configured extension with dot should match, got %v", got)
	}
	if got := DialectFor("obs.dat", exts); got != Whitespace {
		t.Fatalf("dat should use whitespace dialect, got %v", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": Auto, "auto": Auto, "Comma": Comma, "whitespace": Whitespace, "space": Whitespace} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDialect("semicolon"); err == nil {
		t.Fatalf("expected error for unsupported dialect")
	}
}
