package world

// EventType enumerates the kinds of GameEvent.
type EventType string

const (
	EventCombat    EventType = "combat"
	EventTrade     EventType = "trade"
	EventDialogue  EventType = "dialogue"
	EventBetrayal  EventType = "betrayal"
	EventAlliance  EventType = "alliance"
	EventRumor     EventType = "rumor"
	EventDeath     EventType = "death"
	EventDisaster  EventType = "disaster"
	EventDiscovery EventType = "discovery"
	EventPolitical EventType = "political"
	EventCustom    EventType = "custom"
)

// GameEvent is one occurrence in the causal stream. Immutable once
// created; appended to the world history and never mutated or deleted.
type GameEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Tick         int       `json:"tick"`
	Participants []string  `json:"participants,omitempty"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description"`
	Effects      []Effect  `json:"-"`
	IsPublic     bool      `json:"is_public"`
	Witnesses    []string  `json:"witnesses,omitempty"`
}

// HasParticipant reports whether id took part in the event.
func (e *GameEvent) HasParticipant(id string) bool {
	for _, p := range e.Participants {
		if p == id {
			return true
		}
	}
	return false
}
