package services

import (
	"errors"
	"fmt"

	"github.com/JaneshKapoor/nayraa/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotSubmittable rejects submission locally before any network
	// call when photo, video or location is missing.
	ErrNotSubmittable = errors.New("photo, video, and location must all be captured before submitting")

	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrAlreadySubmitted     = errors.New("report has already been submitted")
	ErrRecordingInProgress  = errors.New("a recording is already in progress")
	ErrNotRecording         = errors.New("no recording is in progress")
)

// PermissionError blocks a capture operation on a denied capability. The
// capability is carried so the UI can offer the matching retry control.
type PermissionError struct {
	Capability models.Capability
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s permission denied", e.Capability)
}

// StateError rejects an operation that is not valid in the session's
// current workflow state.
type StateError struct {
	Op    string
	State models.SessionState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.State)
}

// CaptureError wraps a still-capture failure. The session state is left
// unchanged so the user can retry.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("failed to take picture: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// RecordingError wraps a video-recording failure. PermissionSuspected is
// derived from the device agent's error code, not from message text.
type RecordingError struct {
	Err                 error
	PermissionSuspected bool
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("failed to record video: %v", e.Err)
}

func (e *RecordingError) Unwrap() error { return e.Err }

// SubmissionError wraps a failure in one of the three submission steps.
type SubmissionError struct {
	Step string // "photo", "video" or "record"
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed at %s step: %v", e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
