// internal/session/models.go
package session

import "time"

// State holds the dialogue context for one session. All fields are value
// types or maps owned by the store; callers always receive a copy.
type State struct {
	SessionID            string            `json:"sessionId"`
	CreatedAt            time.Time         `json:"createdAt"`
	LastUpdated          time.Time         `json:"lastUpdated"`
	LastIntent           string            `json:"lastIntent,omitempty"`
	FilledSlots          map[string]string `json:"filledSlots"`
	PendingSlots         []string          `json:"pendingSlots,omitempty"`
	ConfirmationRequired bool              `json:"confirmationRequired"`
	RetryCount           int               `json:"retryCount"`
}

// clone returns a deep copy so store internals never escape.
func (s *State) clone() *State {
	out := *s
	out.FilledSlots = make(map[string]string, len(s.FilledSlots))
	for k, v := range s.FilledSlots {
		out.FilledSlots[k] = v
	}
	if s.PendingSlots != nil {
		out.PendingSlots = append([]string(nil), s.PendingSlots...)
	}
	return &out
}
