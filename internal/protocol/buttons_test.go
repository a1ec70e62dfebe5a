package protocol

import "testing"

func TestLookupButton(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    byte
		wantErr bool
	}{
		{name: "volume up", input: "volume-up", want: 0xB6},
		{name: "volume down", input: "volume-down", want: 0xB9},
		{name: "case insensitive", input: "Volume-Up", want: 0xB6},
		{name: "surrounding whitespace", input: " mute ", want: 0xBA},
		{name: "hex literal", input: "b6", want: 0xB6},
		{name: "hex literal with prefix", input: "0xB9", want: 0xB9},
		{name: "hex zero", input: "0x00", want: 0x00},
		{name: "unknown name", input: "warp-drive", wantErr: true},
		{name: "hex out of byte range", input: "0x1b6", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupButton(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LookupButton(%q) = 0x%02x, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupButton(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("LookupButton(%q) = 0x%02x, want 0x%02x", tt.input, got, tt.want)
			}
		})
	}
}

func TestButtonNamesRoundTrip(t *testing.T) {
	names := ButtonNames()
	if len(names) == 0 {
		t.Fatal("ButtonNames() returned empty catalog")
	}

	for _, name := range names {
		code, ok := ButtonCode(name)
		if !ok {
			t.Errorf("ButtonCode(%q) not found for name from ButtonNames()", name)
			continue
		}
		if got := ButtonName(code); got != name {
			t.Errorf("ButtonName(0x%02x) = %q, want %q", code, got, name)
		}
	}
}

func TestButtonNameUnknownCode(t *testing.T) {
	if got := ButtonName(0x01); got != "" {
		t.Errorf("ButtonName(0x01) = %q, want empty", got)
	}
}
