package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	TypeBooking = "booking"
	TypeMessage = "message"
)

// maxPerUser bounds each user's in-memory notification list.
const maxPerUser = 50

// Notification is a synthesized, unpersisted alert. Lost on restart.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store holds notifications per user in memory, newest first.
type Store struct {
	mu     sync.RWMutex
	byUser map[string][]*Notification
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byUser: make(map[string][]*Notification)}
}

// Add prepends a notification for the user and returns a snapshot copy, so
// callers never share the stored entry with concurrent MarkRead calls.
func (s *Store) Add(userID, typ, title, description, link string) Notification {
	n := &Notification{
		ID:          uuid.New().String(),
		Type:        typ,
		Title:       title,
		Description: description,
		Link:        link,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]*Notification{n}, s.byUser[userID]...)
	if len(list) > maxPerUser {
		list = list[:maxPerUser]
	}
	s.byUser[userID] = list
	return *n
}

// List returns a snapshot of the user's notifications, newest first.
func (s *Store) List(userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.byUser[userID]))
	for _, n := range s.byUser[userID] {
		out = append(out, *n)
	}
	return out
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *Store) UnreadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification as read. Returns false if unknown.
func (s *Store) MarkRead(userID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.byUser[userID] {
		if n.ID == id {
			n.Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flags every notification of the user as read.
func (s *Store) MarkAllRead(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.byUser[userID] {
		n.Read = true
	}
}
