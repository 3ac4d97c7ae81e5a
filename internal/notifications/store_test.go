package notifications

import (
	"strconv"
	"testing"
)

func TestStoreAddAndList(t *testing.T) {
	s := NewStore()

	s.Add("u1", TypeBooking, "first", "", "")
	s.Add("u1", TypeMessage, "second", "", "")
	s.Add("u2", TypeBooking, "other user", "", "")

	list := s.List("u1")
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// Newest first
	if list[0].Title != "second" || list[1].Title != "first" {
		t.Errorf("order wrong: %q, %q", list[0].Title, list[1].Title)
	}
	if len(s.List("u2")) != 1 {
		t.Error("u2 list polluted")
	}
	if len(s.List("unknown")) != 0 {
		t.Error("unknown user should have no notifications")
	}
}

func TestStoreCap(t *testing.T) {
	s := NewStore()
	for i := 0; i < maxPerUser+10; i++ {
		s.Add("u1", TypeMessage, "n"+strconv.Itoa(i), "", "")
	}
	list := s.List("u1")
	if len(list) != maxPerUser {
		t.Fatalf("len = %d, want %d", len(list), maxPerUser)
	}
	if list[0].Title != "n"+strconv.Itoa(maxPerUser+9) {
		t.Errorf("newest entry lost: %q", list[0].Title)
	}
}

// The value handed back by Add is a snapshot. The push path serialises it
// concurrently with MarkRead, so it must not alias the stored entry.
func TestStoreAddReturnsSnapshot(t *testing.T) {
	s := NewStore()
	n := s.Add("u1", TypeBooking, "a", "", "")

	n.Read = true
	if s.UnreadCount("u1") != 1 {
		t.Error("mutating the returned snapshot leaked into the store")
	}

	if !s.MarkRead("u1", n.ID) {
		t.Fatal("MarkRead returned false for known id")
	}
	if list := s.List("u1"); !list[0].Read {
		t.Error("MarkRead did not flag the stored entry")
	}
}

func TestStoreMarkRead(t *testing.T) {
	s := NewStore()
	n := s.Add("u1", TypeBooking, "a", "", "")
	s.Add("u1", TypeBooking, "b", "", "")

	if s.UnreadCount("u1") != 2 {
		t.Fatalf("unread = %d, want 2", s.UnreadCount("u1"))
	}
	if !s.MarkRead("u1", n.ID) {
		t.Fatal("MarkRead returned false for known id")
	}
	if s.UnreadCount("u1") != 1 {
		t.Errorf("unread = %d, want 1", s.UnreadCount("u1"))
	}
	if s.MarkRead("u1", "nope") {
		t.Error("MarkRead returned true for unknown id")
	}
	if s.MarkRead("u2", n.ID) {
		t.Error("MarkRead crossed user boundary")
	}

	s.MarkAllRead("u1")
	if s.UnreadCount("u1") != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", s.UnreadCount("u1"))
	}
}
