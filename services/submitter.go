package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genproto/googleapis/type/latlng"

	"github.com/JaneshKapoor/nayraa/models"
)

// ErrReportNotFound is returned by ReportStore lookups for unknown tickets.
var ErrReportNotFound = errors.New("report not found")

// BlobStore uploads capture artifacts and deletes them again when a
// submission has to be rolled back.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// ReportStore persists and reads report documents.
type ReportStore interface {
	Add(ctx context.Context, report *models.Report) error
	FindByTicket(ctx context.Context, ticketID string) (*models.Report, error)
	CountReports(ctx context.Context) (int, error)
}

// EventPublisher announces successful submissions to downstream consumers.
type EventPublisher interface {
	ReportSubmitted(ctx context.Context, report *models.Report) error
}

// ReportSubmitter runs the three-part submission: photo blob, video blob,
// then the report document. Steps are strictly sequential; on failure the
// blobs already uploaded under the ticket prefix are deleted so retries
// (which generate a fresh ticket id) never accumulate orphans.
type ReportSubmitter struct {
	blobs   BlobStore
	reports ReportStore
	assets  AssetReader
	events  EventPublisher // optional
	tickets *TicketGenerator
}

func NewReportSubmitter(blobs BlobStore, reports ReportStore, assets AssetReader, events EventPublisher) *ReportSubmitter {
	return &ReportSubmitter{
		blobs:   blobs,
		reports: reports,
		assets:  assets,
		events:  events,
		tickets: NewTicketGenerator(),
	}
}

// Submit uploads the session's artifacts and writes the report record.
// Callers must have validated the report invariant already; this is
// re-checked here as a last line of defense.
func (s *ReportSubmitter) Submit(ctx context.Context, session *models.CaptureSession) (string, error) {
	if !session.Submittable() {
		return "", ErrNotSubmittable
	}

	ticketID := s.tickets.Next()
	log.Printf("[submitter] starting submission session=%s ticket=%s", session.ID, ticketID)

	photoPath := fmt.Sprintf("reports/%s/photo.jpg", ticketID)
	photoURL, err := s.uploadAsset(ctx, session.PhotoAsset, photoPath, "image/jpeg")
	if err != nil {
		return "", &SubmissionError{Step: "photo", Err: err}
	}
	log.Printf("[submitter] photo uploaded ticket=%s url=%s", ticketID, photoURL)

	videoPath := fmt.Sprintf("reports/%s/video.mp4", ticketID)
	videoURL, err := s.uploadAsset(ctx, session.VideoAsset, videoPath, "video/mp4")
	if err != nil {
		s.rollback(ctx, ticketID, photoPath)
		return "", &SubmissionError{Step: "video", Err: err}
	}
	log.Printf("[submitter] video uploaded ticket=%s url=%s", ticketID, videoURL)

	report := &models.Report{
		TicketID: ticketID,
		PhotoURL: photoURL,
		VideoURL: videoURL,
		Location: &latlng.LatLng{
			Latitude:  session.Location.Latitude,
			Longitude: session.Location.Longitude,
		},
		Status: models.StatusPending,
	}
	if err := s.reports.Add(ctx, report); err != nil {
		s.rollback(ctx, ticketID, photoPath, videoPath)
		return "", &SubmissionError{Step: "record", Err: err}
	}
	log.Printf("[submitter] report record saved ticket=%s", ticketID)

	if s.events != nil {
		if err := s.events.ReportSubmitted(ctx, report); err != nil {
			// Best effort only; the submission itself has succeeded.
			log.Printf("[submitter] failed to publish submission event ticket=%s: %v", ticketID, err)
		}
	}

	return ticketID, nil
}

func (s *ReportSubmitter) uploadAsset(ctx context.Context, uri, path, contentType string) (string, error) {
	data, err := s.assets.ReadAsset(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", uri, err)
	}
	url, err := s.blobs.Upload(ctx, path, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return url, nil
}

func (s *ReportSubmitter) rollback(ctx context.Context, ticketID string, paths ...string) {
	for _, path := range paths {
		if err := s.blobs.Delete(ctx, path); err != nil {
			log.Printf("[submitter] rollback delete failed ticket=%s path=%s: %v", ticketID, path, err)
		}
	}
}
