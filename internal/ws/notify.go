package ws

import (
	"encoding/json"
	"time"
)

type CatalogUpdatedEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Skills    int    `json:"skills"`
	Jobs      int    `json:"jobs"`
	Timestamp string `json:"timestamp"`
}

// NotifyCatalogUpdated tells lobby subscribers to refetch skills and jobs.
func (h *Hub) NotifyCatalogUpdated(source string, skills, jobs int) {
	if h == nil {
		return
	}
	evt := CatalogUpdatedEvent{
		Type:      "catalog_updated",
		Source:    source,
		Skills:    skills,
		Jobs:      jobs,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
