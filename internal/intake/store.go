package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "intake:draft:" // Key for draft data: intake:draft:{session_id}
	draftTTL       = 24 * time.Hour  // Abandoned drafts expire after a day
)

// ErrDraftNotFound is returned when no draft exists for a session id
var ErrDraftNotFound = errors.New("intake draft not found")

// ContactStep holds the first wizard step: who is asking.
type ContactStep struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// ProjectStep holds the second wizard step: what they want built.
type ProjectStep struct {
	Description string `json:"description"`
	Goals       string `json:"goals,omitempty"`
	Complexity  string `json:"complexity"`
}

// BookingStep holds the optional third step: a kickoff call slot.
type BookingStep struct {
	Date     string `json:"date"`     // YYYY-MM-DD in the visitor's timezone
	Slot     string `json:"slot"`     // HH:MM visitor-local
	Timezone string `json:"timezone"` // IANA zone name
}

// Draft is a partially completed intake wizard session.
type Draft struct {
	SessionID string       `json:"session_id"`
	Step      int          `json:"step"`
	Contact   *ContactStep `json:"contact,omitempty"`
	Project   *ProjectStep `json:"project,omitempty"`
	Booking   *BookingStep `json:"booking,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store persists intake drafts in Redis with a TTL so abandoned wizard
// sessions clean themselves up.
type Store struct {
	client *redis.Client
}

// NewStore creates a new intake draft store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Start creates a fresh draft session
func (s *Store) Start(ctx context.Context) (*Draft, error) {
	now := time.Now()
	draft := &Draft{
		SessionID: uuid.New().String(),
		Step:      1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Get retrieves a draft by session id
func (s *Store) Get(ctx context.Context, sessionID string) (*Draft, error) {
	data, err := s.client.Get(ctx, s.draftKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intake draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intake draft: %w", err)
	}
	return &draft, nil
}

// Save writes a draft and refreshes its TTL
func (s *Store) Save(ctx context.Context, draft *Draft) error {
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal intake draft: %w", err)
	}

	if err := s.client.Set(ctx, s.draftKey(draft.SessionID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save intake draft: %w", err)
	}
	return nil
}

// Delete removes a draft, normally after a successful submit
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete intake draft: %w", err)
	}
	return nil
}

// Complete reports whether the draft carries everything a submit needs.
// The booking step is optional.
func (d *Draft) Complete() bool {
	return d.Contact != nil && d.Contact.Name != "" && d.Contact.Email != "" &&
		d.Project != nil && d.Project.Description != "" && d.Project.Complexity != ""
}

func (s *Store) draftKey(sessionID string) string {
	return draftKeyPrefix + sessionID
}
