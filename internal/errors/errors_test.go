package errors

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/viewroute/pkg/router"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"not found", "R001", "No route matches path", CategoryRouting},
		{"view source", "V001", "View source unavailable", CategoryView},
		{"config", "C002", "Config file invalid", CategoryConfig},
		{"unknown", "Z999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("C001").Wrap(cause)

	if got := err.Error(); got != "C001: Config file not readable: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}

	plain := Newf(CategoryCLI, "bad flag %q", "--x")
	if plain.Error() != `bad flag "--x"` {
		t.Errorf("Error() = %q", plain.Error())
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &router.NotFoundError{Path: "/x"}, "R001"},
		{"load failure", &router.LoadError{Route: "Create", Module: "FormView", Err: stderrors.New("x")}, "R002"},
		{"duplicate", router.ErrDuplicateName, "R003"},
		{"pattern", router.ErrInvalidPattern, "R004"},
		{"path", router.ErrInvalidPath, "R005"},
		{"href", router.ErrMissingParam, "R006"},
		{"other", stderrors.New("x"), "X001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err, "X001")
			if got.Code != tt.want {
				t.Errorf("code = %q, want %q", got.Code, tt.want)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("FromError should wrap the original error")
			}
		})
	}

	if FromError(nil, "X001") != nil {
		t.Error("FromError(nil) should be nil")
	}
	existing := New("C003")
	if FromError(existing, "X001") != existing {
		t.Error("FromError should return an existing *Error as-is")
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewroute.toml")
	content := "a = 1\nb = 2\nbase = /app\nd = 4\ne = 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("C002").WithLocation(path, 3, 8)
	if err.Location.String() != path+":3:8" {
		t.Errorf("Location = %q", err.Location.String())
	}
	if len(err.Context) != 5 {
		t.Fatalf("context lines = %d, want 5", len(err.Context))
	}

	DisableColors()
	defer EnableColors()
	out := err.Format()
	for _, want := range []string{"ERROR C002: Config file invalid", "→    3 │ base = /app", "^", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestLocationString(t *testing.T) {
	var nilLoc *Location
	if nilLoc.String() != "" {
		t.Error("nil location should be empty")
	}
	if (&Location{File: "a", Line: 2}).String() != "a:2" {
		t.Error("location without column")
	}
}

func TestFormatCompactAndJSON(t *testing.T) {
	err := New("R001").WithDetail("path /x").Wrap(stderrors.New("cause"))
	err.Location = &Location{File: "f", Line: 1}

	if got := err.FormatCompact(); got != "f:1: R001: No route matches path: cause" {
		t.Errorf("FormatCompact() = %q", got)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON not valid JSON: %v", jerr)
	}
	if decoded["code"] != "R001" || decoded["cause"] != "cause" || decoded["detail"] != "path /x" {
		t.Errorf("FormatJSON = %v", decoded)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != len(registry) {
		t.Fatalf("GetAllCodes len = %d, want %d", len(codes), len(registry))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("R002"); !ok {
		t.Error("GetTemplate(R002) missing")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, stderrors.New("plain"))
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("Fprint plain = %q", b.String())
	}

	b.Reset()
	Fprint(&b, New("R001"))
	if !strings.Contains(b.String(), "ERROR R001") {
		t.Errorf("Fprint coded = %q", b.String())
	}
}

func TestFprintAs(t *testing.T) {
	DisableColors()
	defer EnableColors()

	coded := New("C002").WithLocation("viewroute.toml", 3, 7).Wrap(stderrors.New("bad value"))

	tests := []struct {
		format string
		err    error
		want   string
	}{
		{OutputCompact, coded, "viewroute.toml:3:7: C002: Config file invalid: bad value\n"},
		{OutputCompact, stderrors.New("plain"), "plain\n"},
		{OutputJSON, stderrors.New("plain"), `{"category":"cli","message":"plain"}` + "\n"},
	}
	for _, tt := range tests {
		var b strings.Builder
		FprintAs(&b, tt.err, tt.format)
		if b.String() != tt.want {
			t.Errorf("FprintAs(%s, %v) = %q, want %q", tt.format, tt.err, b.String(), tt.want)
		}
	}

	var b strings.Builder
	FprintAs(&b, coded, OutputJSON)
	if !strings.Contains(b.String(), `"code":"C002"`) || !strings.Contains(b.String(), `"line":3`) {
		t.Errorf("FprintAs json = %q", b.String())
	}

	b.Reset()
	FprintAs(&b, coded, "yaml")
	if !strings.Contains(b.String(), "ERROR C002") {
		t.Errorf("unknown format should fall back to text: %q", b.String())
	}
}

func TestValidOutput(t *testing.T) {
	for _, f := range []string{OutputText, OutputCompact, OutputJSON} {
		if !ValidOutput(f) {
			t.Errorf("ValidOutput(%q) = false", f)
		}
	}
	if ValidOutput("xml") {
		t.Error(`ValidOutput("xml") = true`)
	}
}
