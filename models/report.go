package models

import (
	"time"

	"google.golang.org/genproto/googleapis/type/latlng"
)

type ReportStatus string

const (
	// StatusPending is the only status this service assigns; later
	// transitions belong to the back-office tooling.
	StatusPending ReportStatus = "pending"
)

// Report is the document written to the "reports" collection once a capture
// session is submitted. SubmittedAt is assigned by Firestore at write time.
type Report struct {
	TicketID    string         `firestore:"ticketId" json:"ticket_id"`
	PhotoURL    string         `firestore:"photoUrl" json:"photo_url"`
	VideoURL    string         `firestore:"videoUrl" json:"video_url"`
	Location    *latlng.LatLng `firestore:"location" json:"location"`
	Status      ReportStatus   `firestore:"status" json:"status"`
	SubmittedAt time.Time      `firestore:"submittedAt,serverTimestamp" json:"submitted_at"`
}
