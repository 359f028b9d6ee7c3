package routepath

import "testing"

func TestNormalizeBase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"/app/", "/app"},
		{"app", "/app"},
		{"/a/b/", "/a/b"},
		{"https://example.com/app/", "/app"},
		{"https://example.com", ""},
		{"  /app  ", "/app"},
	}
	for _, tt := range tests {
		if got := NormalizeBase(tt.in); got != tt.want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripBase(t *testing.T) {
	tests := []struct {
		base, path string
		want       string
		ok         bool
	}{
		{"", "/create", "/create", true},
		{"/app", "/app", "/", true},
		{"/app", "/app/create", "/create", true},
		{"/app", "/application", "", false},
		{"/app", "/create", "", false},
	}
	for _, tt := range tests {
		got, ok := StripBase(tt.base, tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StripBase(%q, %q) = (%q, %v), want (%q, %v)", tt.base, tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestJoinBase(t *testing.T) {
	if got := JoinBase("", "/create"); got != "/create" {
		t.Errorf("got %q", got)
	}
	if got := JoinBase("/app", "/"); got != "/app/" {
		t.Errorf("got %q", got)
	}
	if got := JoinBase("/app", "/update/42"); got != "/app/update/42" {
		t.Errorf("got %q", got)
	}
}
