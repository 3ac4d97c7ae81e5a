package bookings

import (
	"fmt"
	"testing"
	"time"
)

func TestTotalPrice(t *testing.T) {
	cases := []struct {
		seats int
		price float64
		want  float64
	}{
		{1, 5000, 5000},
		{2, 5000, 10000},
		{3, 2500.50, 7501.50},
	}
	for _, c := range cases {
		if got := TotalPrice(c.seats, c.price); got != c.want {
			t.Errorf("TotalPrice(%d, %v) = %v, want %v", c.seats, c.price, got, c.want)
		}
	}
}

var bookingSeq int

func bookingAt(status string, departure time.Time) BookingWithTrip {
	bookingSeq++
	return BookingWithTrip{
		Booking: Booking{ID: fmt.Sprintf("b%d-%s", bookingSeq, status), Status: status},
		Trip:    TripSummary{DepartureTime: departure},
	}
}

func TestIsPast(t *testing.T) {
	now := time.Now()
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	cases := []struct {
		name string
		b    BookingWithTrip
		want bool
	}{
		{"pending future trip", bookingAt(StatusPending, future), false},
		{"confirmed future trip", bookingAt(StatusConfirmed, future), false},
		{"pending departed trip", bookingAt(StatusPending, past), true},
		{"completed future trip", bookingAt(StatusCompleted, future), true},
		{"cancelled future trip", bookingAt(StatusCancelled, future), true},
		{"departure exactly now", bookingAt(StatusConfirmed, now), true},
	}
	for _, c := range cases {
		if got := IsPast(c.b, now); got != c.want {
			t.Errorf("%s: IsPast = %v, want %v", c.name, got, c.want)
		}
	}
}

// The upcoming/past lists must be disjoint and exhaustive over the input.
func TestPartitionDisjointExhaustive(t *testing.T) {
	now := time.Now()
	all := []BookingWithTrip{
		bookingAt(StatusPending, now.Add(time.Hour)),
		bookingAt(StatusConfirmed, now.Add(24*time.Hour)),
		bookingAt(StatusConfirmed, now.Add(-time.Hour)),
		bookingAt(StatusCompleted, now.Add(time.Hour)),
		bookingAt(StatusCancelled, now.Add(time.Hour)),
	}

	lists := Partition(all, now)

	if got := len(lists.Upcoming) + len(lists.Past); got != len(all) {
		t.Fatalf("partition not exhaustive: %d + %d != %d", len(lists.Upcoming), len(lists.Past), len(all))
	}
	seen := map[string]int{}
	for _, b := range lists.Upcoming {
		seen[b.ID]++
	}
	for _, b := range lists.Past {
		seen[b.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("booking %s appears %d times", id, n)
		}
	}

	if len(lists.Upcoming) != 2 {
		t.Errorf("upcoming = %d, want 2", len(lists.Upcoming))
	}
	for _, b := range lists.Upcoming {
		if IsPast(b, now) {
			t.Errorf("past booking %s in upcoming list", b.ID)
		}
	}
}

func TestPartitionEmpty(t *testing.T) {
	lists := Partition(nil, time.Now())
	if lists.Upcoming == nil || lists.Past == nil {
		t.Error("partition of empty input must return empty, non-nil lists")
	}
}
