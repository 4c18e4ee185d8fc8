package models

import "time"

// SessionState enumerates the steps of the capture workflow. Review,
// Submitting and Submitted are distinct states so the UI never has to derive
// its view from artifact presence.
type SessionState string

const (
	StateAwaitingPhoto SessionState = "awaiting_photo"
	StateAwaitingVideo SessionState = "awaiting_video"
	StateReview        SessionState = "review"
	StateSubmitting    SessionState = "submitting"
	StateSubmitted     SessionState = "submitted"
)

type Capability string

const (
	CapabilityCamera       Capability = "camera"
	CapabilityMediaLibrary Capability = "media_library"
	CapabilityMicrophone   Capability = "microphone"
	CapabilityLocation     Capability = "location"
)

// Capabilities lists every device capability in the order the gatekeeper
// requests them at session start.
var Capabilities = []Capability{
	CapabilityCamera,
	CapabilityMediaLibrary,
	CapabilityMicrophone,
	CapabilityLocation,
}

type PermissionStatus string

const (
	PermissionUnknown PermissionStatus = "unknown"
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CaptureSession holds the transient state of one report workflow. Asset
// fields are device-local URIs, empty until the corresponding capture
// completes.
type CaptureSession struct {
	ID          string                          `json:"id"`
	State       SessionState                    `json:"state"`
	Permissions map[Capability]PermissionStatus `json:"permissions"`
	PhotoAsset  string                          `json:"photo_asset,omitempty"`
	VideoAsset  string                          `json:"video_asset,omitempty"`
	Location    *Coordinates                    `json:"location,omitempty"`
	Muted       bool                            `json:"muted"`
	Recording   bool                            `json:"recording"`
	TicketID    string                          `json:"ticket_id,omitempty"`
	CreatedAt   time.Time                       `json:"created_at"`

	// MutedWarned tracks whether the one-time "audio will be absent"
	// warning has been delivered.
	MutedWarned bool `json:"-"`
}

// Submittable reports whether the session satisfies the report invariant:
// photo, video and location all present.
func (s *CaptureSession) Submittable() bool {
	return s.PhotoAsset != "" && s.VideoAsset != "" && s.Location != nil
}
