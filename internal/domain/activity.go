package domain

import (
	"fmt"
	"time"
)

// Activity is one entry of a lead's append-only history.
type Activity struct {
	ID          string
	LeadID      string
	Type        ActivityType
	Description string
	Timestamp   time.Time
	Metadata    ActivityMetadata
}

type ActivityMetadata struct {
	OldStage    Stage   `json:"oldStage,omitempty"`
	NewStage    Stage   `json:"newStage,omitempty"`
	ContactType Channel `json:"contactType,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	Message     string  `json:"message,omitempty"`
	Note        string  `json:"note,omitempty"`
}

func (m ActivityMetadata) IsZero() bool {
	return m == ActivityMetadata{}
}

// Describe builds the default description of an activity of type t.
func Describe(t ActivityType, m ActivityMetadata) string {
	switch t {
	case ActivityCreated:
		return "Lead created"
	case ActivityStageChanged:
		return fmt.Sprintf("Stage changed from %s to %s", m.OldStage, m.NewStage)
	case ActivityContacted:
		method := "SMS"
		if m.ContactType == ChannelEmail {
			method = "Email"
		}
		if m.Subject != "" {
			return fmt.Sprintf("%s sent - Subject: %s", method, m.Subject)
		}
		return method + " sent"
	case ActivityNoteAdded:
		return "Note added: " + m.Note
	case ActivityUpdated:
		return "Lead information updated"
	case ActivityConverted:
		return "Converted to customer"
	case ActivityArchived:
		return "Archived"
	case ActivityRestored:
		return "Restored from archive"
	default:
		return "Activity logged"
	}
}
