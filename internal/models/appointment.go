package models

import "encoding/json"

// AppointmentRequest is the booking payload. Optional fields are sent as empty
// strings, the way the form holds them.
type AppointmentRequest struct {
	ClientName    string `json:"client_name"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Note          string `json:"note"`
	Source        string `json:"source"`
}

// AppointmentCreated is the part of the creation response the client reads.
type AppointmentCreated struct {
	ID ResourceID `json:"id"`
}

type Appointment struct {
	ID            ResourceID `json:"id"`
	ClientName    string     `json:"client_name"`
	Phone         string     `json:"phone"`
	PreferredDate string     `json:"preferred_date"`
	PreferredTime string     `json:"preferred_time"`
	Note          string     `json:"note"`
	Status        string     `json:"status"`
	Source        string     `json:"source,omitempty"`
	CreatedAt     string     `json:"created_at,omitempty"`
}

// BackupDocument is kept verbatim; the client never interprets its shape.
type BackupDocument = json.RawMessage

// Greeting is the root endpoint response.
type Greeting struct {
	Message string `json:"message"`
}

// Diagnostic is the /test endpoint response.
type Diagnostic struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// BookingForm is the editable booking input. It is also the stored draft.
type BookingForm struct {
	ClientName    string `json:"client_name"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Note          string `json:"note"`
}

func (f BookingForm) IsEmpty() bool {
	return f == BookingForm{}
}

// Request builds the submission payload tagged with SourceSite.
func (f BookingForm) Request() AppointmentRequest {
	return AppointmentRequest{
		ClientName:    f.ClientName,
		Phone:         f.Phone,
		PreferredDate: f.PreferredDate,
		PreferredTime: f.PreferredTime,
		Note:          f.Note,
		Source:        SourceSite,
	}
}
