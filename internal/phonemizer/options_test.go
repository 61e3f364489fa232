package phonemizer

import (
	"strings"
	"testing"
)

func TestParseLanguageSwitch(t *testing.T) {
	tests := []struct {
		in      string
		want    LanguageSwitch
		wantErr bool
	}{
		{in: "", want: KeepFlags},
		{in: "keep-flags", want: KeepFlags},
		{in: "remove-flags", want: RemoveFlags},
		{in: " Remove-Utterance ", want: RemoveUtterance},
		{in: "drop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguageSwitch(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguageSwitch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLanguageSwitch() = %v, want %v", got, tt.want)
			}
		})
	}

	for _, l := range []LanguageSwitch{KeepFlags, RemoveFlags, RemoveUtterance} {
		back, err := ParseLanguageSwitch(l.String())
		if err != nil || back != l {
			t.Errorf("String/Parse round trip failed for %v", l)
		}
	}
}

func TestParseWordMismatch(t *testing.T) {
	tests := []struct {
		in      string
		want    WordMismatch
		wantErr bool
	}{
		{in: "", want: MismatchIgnore},
		{in: "ignore", want: MismatchIgnore},
		{in: "warn", want: MismatchWarn},
		{in: "REMOVE", want: MismatchRemove},
		{in: "fix", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWordMismatch(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWordMismatch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWordMismatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTie(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "false", want: ""},
		{in: "true", want: DefaultTie},
		{in: "_", want: "_"},
		{in: "ʧ", want: "ʧ"},
		{in: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTie(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTie() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTie() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnknownEnumString(t *testing.T) {
	if s := LanguageSwitch(42).String(); !strings.Contains(s, "42") {
		t.Errorf("Unexpected String() for unknown value: %s", s)
	}
	if s := WordMismatch(-1).String(); !strings.Contains(s, "-1") {
		t.Errorf("Unexpected String() for unknown value: %s", s)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Language != "en-us" {
		t.Errorf("Expected default language 'en-us', got '%s'", opts.Language)
	}
	if !opts.WithStress {
		t.Error("Expected stress marks on by default")
	}
	if opts.Tie != "" {
		t.Errorf("Expected no tie by default, got %q", opts.Tie)
	}
	if opts.LanguageSwitch != KeepFlags || opts.WordMismatch != MismatchIgnore {
		t.Errorf("Unexpected default policies: %v, %v", opts.LanguageSwitch, opts.WordMismatch)
	}
}

func TestOptionsFingerprint(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Equal options must have equal fingerprints")
	}

	b.WithStress = false
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Different options must have different fingerprints")
	}
}
