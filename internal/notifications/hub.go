package notifications

import (
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"carpool-service/internal/messages"
	"carpool-service/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *safeConn) readMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *safeConn) close() { c.ws.Close() }

// Hub manages WebSocket connections per channel. Channels are either a
// user's notification feed ("user:<id>") or a booking's live chat
// ("booking:<id>").
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*safeConn
	msgs  *messages.Service
}

// NewHub creates a push hub. The message service answers booking
// membership checks for chat channels.
func NewHub(msgs *messages.Service) *Hub {
	return &Hub{conns: make(map[string][]*safeConn), msgs: msgs}
}

// Routes returns a chi.Router for the /ws mount point. WebSocket clients
// cannot set headers, so auth rides in a token query parameter.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/notifications", h.HandleNotifications)
	r.Get("/bookings/{id}", h.HandleBookingChat)
	return r
}

func authenticate(w http.ResponseWriter, r *http.Request) *jwt.Claims {
	if claims := jwt.GetClaims(r.Context()); claims != nil {
		return claims
	}
	if token := r.URL.Query().Get("token"); token != "" {
		if claims, err := jwt.Validate(token); err == nil {
			return claims
		}
	}
	http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	return nil
}

// HandleNotifications subscribes the caller to their own notification feed.
func (h *Hub) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}
	h.serve(w, r, UserChannel(claims.UserID))
}

// HandleBookingChat subscribes a conversation member to live message
// appends for one booking.
func (h *Hub) HandleBookingChat(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	bookingID := chi.URLParam(r, "id")
	passengerID, driverID, err := h.msgs.Parties(r.Context(), bookingID)
	if err != nil {
		http.Error(w, `{"error":"booking not found"}`, http.StatusNotFound)
		return
	}
	if claims.UserID != passengerID && claims.UserID != driverID {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}

	h.serve(w, r, BookingChannel(bookingID))
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, channel string) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.conns[channel] = append(h.conns[channel], conn)
	h.mu.Unlock()

	log.Printf("[ws] client connected to %s", channel)

	// Block until the client disconnects
	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.removeConn(channel, conn)
	conn.close()
	log.Printf("[ws] client disconnected from %s", channel)
}

// Broadcast pushes a payload to every subscriber of a channel.
// Safe for concurrent calls; each safeConn serialises its own writes.
func (h *Hub) Broadcast(channel string, payload any) {
	h.mu.RLock()
	conns := h.conns[channel]
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(payload); err != nil {
			log.Printf("[ws] write error on %s: %v", channel, err)
		}
	}
}

func (h *Hub) removeConn(channel string, conn *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[channel]
	for i, c := range conns {
		if c == conn {
			h.conns[channel] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[channel]) == 0 {
		delete(h.conns, channel)
	}
}

// UserChannel names a user's notification feed channel.
func UserChannel(userID string) string { return "user:" + userID }

// BookingChannel names a booking's live chat channel.
func BookingChannel(bookingID string) string { return "booking:" + bookingID }
