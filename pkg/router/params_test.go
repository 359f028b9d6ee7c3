package router

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMatchBind(t *testing.T) {
	type updateParams struct {
		ID      int    `param:"id"`
		Slug    string `param:"slug"`
		Page    uint8  `param:"page"`
		Ratio   float64
		Draft   bool      `param:"draft"`
		Owner   uuid.UUID `param:"owner"`
		private string    `param:"slug"`
	}

	m := &Match{Params: map[string]string{
		"id":    "42",
		"slug":  "hello",
		"page":  "7",
		"draft": "true",
		"owner": "0f8fad5b-d9cb-469f-a165-70867728950e",
	}}

	var p updateParams
	if err := m.Bind(&p); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if p.ID != 42 || p.Slug != "hello" || p.Page != 7 || !p.Draft {
		t.Errorf("Bind = %+v", p)
	}
	if p.Owner.String() != "0f8fad5b-d9cb-469f-a165-70867728950e" {
		t.Errorf("Owner = %s", p.Owner)
	}
	if p.private != "" {
		t.Error("unexported field should be skipped")
	}
}

func TestMatchBindErrors(t *testing.T) {
	m := &Match{Params: map[string]string{"id": "abc", "small": "300"}}

	var notPtr struct{}
	if err := m.Bind(notPtr); err == nil {
		t.Error("non-pointer target should fail")
	}
	n := 1
	if err := m.Bind(&n); err == nil {
		t.Error("pointer to non-struct should fail")
	}
	if err := m.Bind(nil); err != nil {
		t.Errorf("nil target should be a no-op, got %v", err)
	}

	var badInt struct {
		ID int `param:"id"`
	}
	if err := m.Bind(&badInt); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("invalid int error = %v", err)
	}

	var overflow struct {
		Small int8 `param:"small"`
	}
	if err := m.Bind(&overflow); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("overflow error = %v", err)
	}

	var unsupported struct {
		ID []int `param:"id"`
	}
	if err := m.Bind(&unsupported); err == nil {
		t.Error("unsupported type should fail")
	}
}

func TestValidateParam(t *testing.T) {
	tests := []struct {
		value, typ string
		ok         bool
	}{
		{"42", "int", true},
		{"x", "int", false},
		{"7", "uint", true},
		{"-7", "uint", false},
		{"0f8fad5b-d9cb-469f-a165-70867728950e", "uuid", true},
		{"not-a-uuid", "uuid", false},
		{"anything", "string", true},
	}
	for _, tt := range tests {
		err := ValidateParam(tt.value, tt.typ)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateParam(%q, %q) = %v, want ok=%v", tt.value, tt.typ, err, tt.ok)
		}
	}
}
