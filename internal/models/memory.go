package models

import "time"

// ChatRole автор реплики в чате
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// VectorRecord запись векторной коллекции.
// Metadata используется коллекцией транзакций, Role и Timestamp коллекцией чата
type VectorRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Vector    []float32 `json:"-"`
	Text      string    `json:"text"`
	Metadata  string    `json:"metadata,omitempty"`
	Role      ChatRole  `json:"role,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

// MemoryHit результат поиска или выборки из коллекции
type MemoryHit struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"ownerId"`
	Text      string   `json:"text"`
	Metadata  string   `json:"metadata,omitempty"`
	Role      ChatRole `json:"role,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
	Distance  float32  `json:"distance"`
}

// ChatTurn реплика диалога в хронологическом порядке
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
