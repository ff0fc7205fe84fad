package domain

import (
	"context"
	"encoding/json"

	"studio/internal/models"
)

type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type RawGetter interface {
	GetRaw(ctx context.Context, path string) (json.RawMessage, error)
}

// Gateway is the full outbound surface used by the admin console.
type Gateway interface {
	Getter
	Poster
	RawGetter
}

// DraftRepository keeps an unsent booking form between attempts.
type DraftRepository interface {
	GetDraft(ctx context.Context, session string) (*models.BookingForm, error)
	SaveDraft(ctx context.Context, session string, form models.BookingForm) error
	ClearDraft(ctx context.Context, session string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BackupSink stores a serialized document under name and returns where it went.
type BackupSink interface {
	Save(name string, data []byte) (string, error)
}

// AppointmentsWriter renders the admin appointment list to a file.
type AppointmentsWriter interface {
	WriteAppointments(appointments []models.Appointment) (string, error)
}
