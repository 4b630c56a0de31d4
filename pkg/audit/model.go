package audit

import "time"

// Entry is an append-only audit record. Entries are never updated or deleted.
type Entry struct {
	ID        int64     `json:"id"`
	ActorUUID string    `json:"actor_uuid"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type EntryList struct {
	Items []Entry `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
