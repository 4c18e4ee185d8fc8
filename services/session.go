package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaneshKapoor/nayraa/models"
)

// Recording length is bounded by the device camera; the agent enforces it,
// this is the value we ask for.
const maxRecordingDuration = 30 * time.Second

// CaptureSessionService owns the in-memory session registry and drives the
// capture workflow state machine. One session corresponds to one mounted
// report screen; sessions are destroyed on unmount or after a successful
// submission when the user navigates back.
type CaptureSessionService struct {
	mu       sync.Mutex
	sessions map[string]*models.CaptureSession

	gatekeeper *PermissionGatekeeper
	camera     Camera
	submitter  *ReportSubmitter
}

func NewCaptureSessionService(gatekeeper *PermissionGatekeeper, camera Camera, submitter *ReportSubmitter) *CaptureSessionService {
	return &CaptureSessionService{
		sessions:   make(map[string]*models.CaptureSession),
		gatekeeper: gatekeeper,
		camera:     camera,
		submitter:  submitter,
	}
}

// Start acquires permissions, pre-populates the location when granted, and
// registers a new session awaiting its photo.
func (s *CaptureSessionService) Start(ctx context.Context) *models.CaptureSession {
	statuses, coords := s.gatekeeper.AcquireAll(ctx)

	session := &models.CaptureSession{
		ID:          uuid.New().String(),
		State:       models.StateAwaitingPhoto,
		Permissions: statuses,
		Location:    coords,
		Muted:       statuses[models.CapabilityMicrophone] != models.PermissionGranted,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("[session] started id=%s muted=%v location=%v", session.ID, session.Muted, coords != nil)
	return session
}

func (s *CaptureSessionService) Get(id string) (*models.CaptureSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Destroy discards the session and its transient artifacts.
func (s *CaptureSessionService) Destroy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// CapturePhoto takes a still image and advances the session to the video
// step. On failure the state is left unchanged.
func (s *CaptureSessionService) CapturePhoto(ctx context.Context, id string) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateAwaitingPhoto {
		return nil, &StateError{Op: "capture photo", State: session.State}
	}
	if err := s.captureAllowed(session); err != nil {
		return nil, err
	}

	uri, err := s.camera.TakePicture(ctx)
	if err != nil {
		return nil, &CaptureError{Err: err}
	}

	s.mu.Lock()
	session.PhotoAsset = uri
	session.State = models.StateAwaitingVideo
	s.mu.Unlock()

	log.Printf("[session] photo captured id=%s", id)
	return session, nil
}

// StartRecording begins a muted or regular recording bounded to 30 seconds.
func (s *CaptureSessionService) StartRecording(ctx context.Context, id string) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateAwaitingVideo {
		return nil, &StateError{Op: "start recording", State: session.State}
	}
	if session.Recording {
		return nil, ErrRecordingInProgress
	}
	if err := s.captureAllowed(session); err != nil {
		return nil, err
	}

	opts := RecordingOptions{
		MaxDuration: maxRecordingDuration,
		Mute:        session.Muted,
	}
	if err := s.camera.StartRecording(ctx, opts); err != nil {
		return nil, recordingError(err)
	}

	s.mu.Lock()
	session.Recording = true
	s.mu.Unlock()

	log.Printf("[session] recording started id=%s muted=%v", id, opts.Mute)
	return session, nil
}

// StopRecording ends the recording, stores the video artifact and moves the
// session to review.
func (s *CaptureSessionService) StopRecording(ctx context.Context, id string) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !session.Recording {
		return nil, ErrNotRecording
	}

	uri, err := s.camera.StopRecording(ctx)

	s.mu.Lock()
	session.Recording = false
	s.mu.Unlock()

	if err != nil {
		return nil, recordingError(err)
	}

	s.mu.Lock()
	session.VideoAsset = uri
	session.State = models.StateReview
	s.mu.Unlock()

	log.Printf("[session] video recorded id=%s", id)
	return session, nil
}

// RetakePhoto discards the photo only and returns to the photo step.
func (s *CaptureSessionService) RetakePhoto(id string) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateAwaitingVideo {
		return nil, &StateError{Op: "retake photo", State: session.State}
	}

	s.mu.Lock()
	session.PhotoAsset = ""
	session.State = models.StateAwaitingPhoto
	s.mu.Unlock()
	return session, nil
}

// RetakeVideo discards the video only and returns to the recording step,
// keeping the photo.
func (s *CaptureSessionService) RetakeVideo(id string) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if session.State != models.StateReview {
		return nil, &StateError{Op: "retake video", State: session.State}
	}

	s.mu.Lock()
	session.VideoAsset = ""
	session.State = models.StateAwaitingVideo
	s.mu.Unlock()
	return session, nil
}

// RetryPermission re-requests a capability the user initially denied.
func (s *CaptureSessionService) RetryPermission(ctx context.Context, id string, capability models.Capability) (*models.CaptureSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	status, coords, err := s.gatekeeper.Retry(ctx, capability)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session.Permissions[capability] = status
	switch capability {
	case models.CapabilityMicrophone:
		session.Muted = status != models.PermissionGranted
	case models.CapabilityLocation:
		if coords != nil {
			session.Location = coords
		}
	}
	s.mu.Unlock()
	return session, nil
}

// Submit validates the report invariant locally, then hands the session to
// the submitter. The session sits in Submitting for the duration so a
// second submit is rejected; on failure it returns to review with its
// artifacts retained.
func (s *CaptureSessionService) Submit(ctx context.Context, id string) (string, error) {
	session, err := s.Get(id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	switch session.State {
	case models.StateSubmitting:
		s.mu.Unlock()
		return "", ErrSubmissionInProgress
	case models.StateSubmitted:
		s.mu.Unlock()
		return "", ErrAlreadySubmitted
	case models.StateReview:
		// proceed
	default:
		state := session.State
		s.mu.Unlock()
		return "", &StateError{Op: "submit", State: state}
	}
	if !session.Submittable() {
		s.mu.Unlock()
		return "", ErrNotSubmittable
	}
	session.State = models.StateSubmitting
	s.mu.Unlock()

	ticketID, err := s.submitter.Submit(ctx, session)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		session.State = models.StateReview
		return "", err
	}
	session.State = models.StateSubmitted
	session.TicketID = ticketID
	return ticketID, nil
}

// TakeMutedWarning reports whether the one-time muted-recording warning is
// still owed to the user, and marks it delivered.
func (s *CaptureSessionService) TakeMutedWarning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || !session.Muted || session.MutedWarned {
		return false
	}
	session.MutedWarned = true
	return true
}

// captureAllowed enforces the hard permission gates: without camera and
// media-library access the capture UI never opens.
func (s *CaptureSessionService) captureAllowed(session *models.CaptureSession) error {
	if session.Permissions[models.CapabilityCamera] != models.PermissionGranted {
		return &PermissionError{Capability: models.CapabilityCamera}
	}
	if session.Permissions[models.CapabilityMediaLibrary] != models.PermissionGranted {
		return &PermissionError{Capability: models.CapabilityMediaLibrary}
	}
	return nil
}

func recordingError(err error) *RecordingError {
	var deviceErr *DeviceError
	suspected := errors.As(err, &deviceErr) && deviceErr.Code == DeviceCodePermissionDenied
	return &RecordingError{Err: err, PermissionSuspected: suspected}
}
