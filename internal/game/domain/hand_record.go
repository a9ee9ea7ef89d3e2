package domain

import "time"

// SeatResult is one seat's outcome within a completed hand.
type SeatResult struct {
	PlayerID    string `json:"player_id"`
	NetChips    int    `json:"net_chips"`
	Description string `json:"description,omitempty"`
	Won         bool   `json:"won"`
}

// HandRecord is the immutable per-hand summary appended when a hand resolves.
// Records are never mutated after creation.
type HandRecord struct {
	TableID     string       `json:"table_id"`
	HandNum     int          `json:"hand_num"`
	Variant     string       `json:"variant"`
	Results     []SeatResult `json:"results"`
	PotAwarded  int          `json:"pot_awarded"`
	CompletedAt time.Time    `json:"completed_at"`
}
