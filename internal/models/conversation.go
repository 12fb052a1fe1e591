package models

import "time"

// ConversationTurn is one question/answer exchange. Turns are append-only:
// once persisted they are never mutated or deleted.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
}
