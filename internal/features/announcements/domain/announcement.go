package domain

import (
	"errors"
	"strings"
	"time"
)

// Variant is the severity of an announcement.
type Variant string

const (
	VariantInfo        Variant = "info"
	VariantWarning     Variant = "warning"
	VariantDestructive Variant = "destructive"
)

var (
	ErrInvalidVariant  = errors.New("invalid announcement variant")
	ErrMissingTitle    = errors.New("announcement title is required")
	ErrInvalidDuration = errors.New("announcement duration must not be negative")
)

// Announcement is a site-wide message shown above every page.
type Announcement struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
	// Duration in seconds. 0 keeps it until it is withdrawn.
	Duration  int       `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAnnouncement validates and creates an Announcement.
func NewAnnouncement(title, description string, variant Variant, duration int) (*Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if variant == "" {
		variant = VariantInfo
	}
	if variant != VariantInfo && variant != VariantWarning && variant != VariantDestructive {
		return nil, ErrInvalidVariant
	}
	if duration < 0 {
		return nil, ErrInvalidDuration
	}

	return &Announcement{
		Title:       title,
		Description: strings.TrimSpace(description),
		Variant:     variant,
		Duration:    duration,
		CreatedAt:   time.Now(),
	}, nil
}

// TTL is how long the announcement stays up; 0 means indefinitely.
func (a *Announcement) TTL() time.Duration {
	return time.Duration(a.Duration) * time.Second
}
