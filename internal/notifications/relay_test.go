package notifications

import "testing"

func TestStatusTitle(t *testing.T) {
	cases := []struct {
		old, new  string
		wantTitle string
		wantOK    bool
	}{
		{"pending", "confirmed", "Booking confirmed", true},
		{"pending", "cancelled", "Booking declined", true},
		{"pending", "pending", "", false}, // no actual change
		{"pending", "completed", "", false},
		{"confirmed", "confirmed", "", false},
	}
	for _, c := range cases {
		title, ok := StatusTitle(c.old, c.new)
		if title != c.wantTitle || ok != c.wantOK {
			t.Errorf("StatusTitle(%q, %q) = (%q, %v), want (%q, %v)",
				c.old, c.new, title, ok, c.wantTitle, c.wantOK)
		}
	}
}

func TestMessageRecipient(t *testing.T) {
	const passenger, driver = "p1", "d1"

	if got, ok := MessageRecipient(passenger, passenger, driver); !ok || got != driver {
		t.Errorf("passenger's message should notify driver, got (%q, %v)", got, ok)
	}
	if got, ok := MessageRecipient(driver, passenger, driver); !ok || got != passenger {
		t.Errorf("driver's message should notify passenger, got (%q, %v)", got, ok)
	}
	if _, ok := MessageRecipient("stranger", passenger, driver); ok {
		t.Error("outsider's message should notify nobody")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 50); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	long := "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeX"
	got := Truncate(long, 50)
	if got != long[:50]+"..." {
		t.Errorf("Truncate = %q", got)
	}
	// rune-safe
	if got := Truncate("ééééé", 3); got != "ééé..." {
		t.Errorf("Truncate(unicode) = %q", got)
	}
}
