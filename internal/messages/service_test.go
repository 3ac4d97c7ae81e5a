package messages

import (
	"testing"
	"time"
)

func TestSortByActivity(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	quiet := Conversation{BookingID: "quiet", DepartureTime: base.Add(time.Hour)}
	old := Conversation{
		BookingID:     "old",
		DepartureTime: base.Add(48 * time.Hour),
		LastMessage:   &Message{CreatedAt: base.Add(-time.Hour)},
	}
	fresh := Conversation{
		BookingID:     "fresh",
		DepartureTime: base.Add(-time.Hour),
		LastMessage:   &Message{CreatedAt: base.Add(2 * time.Hour)},
	}

	convs := []Conversation{old, quiet, fresh}
	sortByActivity(convs)

	want := []string{"fresh", "quiet", "old"}
	for i, id := range want {
		if convs[i].BookingID != id {
			t.Fatalf("position %d = %q, want %q", i, convs[i].BookingID, id)
		}
	}
}
