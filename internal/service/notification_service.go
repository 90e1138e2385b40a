package service

import (
	"sync"
	"time"
)

// maxPendingNotifications bounds the per-user buffer; the oldest entries are
// dropped first once it fills.
const maxPendingNotifications = 20

// Notification is a transient user-facing message.
type Notification struct {
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationCenter buffers fire-and-forget notifications per user until the
// client drains them. Losing a notification is acceptable; blocking a caller
// is not.
type NotificationCenter struct {
	mu      sync.Mutex
	pending map[string][]Notification
}

// NewNotificationCenter returns an empty center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{pending: make(map[string][]Notification)}
}

// Notify queues a message for a user. Implements the feed notifier contract.
func (n *NotificationCenter) Notify(userID, message, severity string) {
	if userID == "" || message == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	queue := append(n.pending[userID], Notification{
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	})
	if len(queue) > maxPendingNotifications {
		queue = queue[len(queue)-maxPendingNotifications:]
	}
	n.pending[userID] = queue
}

// Drain returns and clears the user's pending notifications.
func (n *NotificationCenter) Drain(userID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := n.pending[userID]
	delete(n.pending, userID)
	return queue
}
