package noise

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"white", White},
		{"Blue", Blue},
		{" violet ", Violet},
		{"BROWN", Brown},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseType(%q) = %v, %v", tt.in, got, err)
		}
	}

	if _, err := ParseType("pink"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("ParseType(pink) err = %v", err)
	}
}

func TestTypeString(t *testing.T) {
	for _, typ := range Types() {
		back, err := ParseType(typ.String())
		if err != nil || back != typ {
			t.Fatalf("round trip %s failed: %v %v", typ, back, err)
		}
	}
	if got := Type(9).String(); got != "Type(9)" {
		t.Fatalf("String = %q", got)
	}
}

func TestTypeJSON(t *testing.T) {
	var v struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"violet"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Type != Violet {
		t.Fatalf("decoded %s", v.Type)
	}

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"type":"violet"}` {
		t.Fatalf("encoded %s", b)
	}

	if _, err := json.Marshal(struct{ T Type }{Type(8)}); err == nil {
		t.Fatal("expected error for invalid type")
	}
}
