package channels

import "testing"

func TestBaseChannel_IsAllowed_EmptyList(t *testing.T) {
	c := NewBaseChannel("whatsapp", nil)
	if !c.IsAllowed("whatsapp:+15550001111") {
		t.Error("empty allow list should admit everyone")
	}
}

func TestBaseChannel_IsAllowed(t *testing.T) {
	c := NewBaseChannel("whatsapp", []string{"+15550001111", "whatsapp:+15550002222", "  "})

	tests := []struct {
		sender string
		want   bool
	}{
		{"whatsapp:+15550001111", true},
		{"+15550001111", true},
		{"WhatsApp:+15550002222", true},
		{"+15550002222", true},
		{"whatsapp:+15550003333", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := c.IsAllowed(tt.sender); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.sender, got, tt.want)
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := map[string]string{
		"whatsapp:+1555":   "+1555",
		" WHATSAPP:+1555 ": "+1555",
		"+1555":            "+1555",
		"whats":            "whats",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizeAddress(in); got != want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithScheme(t *testing.T) {
	tests := []struct {
		prefix, addr, want string
	}{
		{"whatsapp:", "+1111", "whatsapp:+1111"},
		{"whatsapp:", "whatsapp:+1111", "whatsapp:+1111"},
		{"whatsapp:", " +1111 ", "whatsapp:+1111"},
		{"", "+1111", "+1111"},
	}
	for _, tt := range tests {
		if got := WithScheme(tt.prefix, tt.addr); got != tt.want {
			t.Errorf("WithScheme(%q, %q) = %q, want %q", tt.prefix, tt.addr, got, tt.want)
		}
	}
}
