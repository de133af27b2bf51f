package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList stores a list of short tags as a JSON text column.
// MySQL and SQLite have no native array type, so the personality
// tags are serialized on write and parsed on read.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source type %T", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// User is an authenticated account. Passwords are stored only as
// bcrypt hashes; the hash never leaves the server.
type User struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:128" json:"full_name"`
	Location     string     `gorm:"size:128" json:"location"`
	Bio          string     `gorm:"type:text" json:"bio"`
	ProfileImage string     `gorm:"size:512" json:"profile_image"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Horse is a dating-pool listing owned by exactly one user.
type Horse struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Breed       string     `gorm:"size:128;not null" json:"breed"`
	Age         int        `gorm:"not null" json:"age"`
	Color       string     `gorm:"size:64;not null" json:"color"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"size:512" json:"image_url"`
	Location    string     `gorm:"size:128" json:"location"`
	Personality StringList `gorm:"type:text" json:"personality"`
	OwnerID     uint64     `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (h *Horse) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// Decision records one horse's like/pass on another.
//
// Composite PK: (ActorHorseID, TargetHorseID)
//   - A repeat swipe on the same target overwrites the previous row,
//     so there is at most one decision per directed pair.
//
// Indexes:
//   - idx_target_liked_updated_actor(target_horse_id, liked, updated_at DESC, actor_horse_id)
//     serves "who liked my horse" lists with pagination.
//   - the composite PK serves the O(1) reciprocity lookup on swipe.
type Decision struct {
	ActorHorseID  string    `gorm:"primaryKey;size:36" json:"actor_horse_id"`
	TargetHorseID string    `gorm:"primaryKey;size:36;index:idx_target_liked_updated_actor,priority:1" json:"target_horse_id"`
	Liked         bool      `gorm:"not null;index:idx_target_liked_updated_actor,priority:2" json:"liked"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime;index:idx_target_liked_updated_actor,priority:3,sort:desc" json:"updated_at"`
}

// Match statuses. Matches created by the swipe engine are always
// "matched"; the other values exist for seeded demo data.
const (
	MatchStatusPending  = "pending"
	MatchStatusMatched  = "matched"
	MatchStatusRejected = "rejected"
)

// Match pairs two horses after a mutual like. Horse1ID is always the
// lexicographically smaller id, and the unique pair index makes a
// second match between the same horses impossible regardless of which
// side's like lands last.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Horse1ID  string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:1" json:"horse1_id"`
	Horse2ID  string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:2" json:"horse2_id"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// NormalizePair orders two horse ids into the canonical (Horse1ID,
// Horse2ID) form used by the matches table.
func NormalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message is a single chat entry within a match. Append-only; content
// is stored verbatim and only ever served as plain text.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID   string    `gorm:"size:36;not null;index:idx_match_created,priority:1" json:"match_id"`
	SenderID  uint64    `gorm:"not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_match_created,priority:2" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
