package services

import (
	"context"
	"fmt"

	"github.com/JaneshKapoor/nayraa/models"
)

type fakePermissions struct {
	statuses  map[models.Capability]models.PermissionStatus
	errs      map[models.Capability]error
	requested []models.Capability
}

func (f *fakePermissions) Request(ctx context.Context, capability models.Capability) (models.PermissionStatus, error) {
	f.requested = append(f.requested, capability)
	if err := f.errs[capability]; err != nil {
		return models.PermissionUnknown, err
	}
	if status, ok := f.statuses[capability]; ok {
		return status, nil
	}
	return models.PermissionGranted, nil
}

type fakeLocation struct {
	coords *models.Coordinates
	err    error
	calls  int
}

func (f *fakeLocation) CurrentPosition(ctx context.Context) (*models.Coordinates, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coords, nil
}

type fakeCamera struct {
	photoURI  string
	photoErr  error
	startErr  error
	stopURI   string
	stopErr   error
	lastOpts  RecordingOptions
	takeCalls int
}

func (f *fakeCamera) TakePicture(ctx context.Context) (string, error) {
	f.takeCalls++
	if f.photoErr != nil {
		return "", f.photoErr
	}
	return f.photoURI, nil
}

func (f *fakeCamera) StartRecording(ctx context.Context, opts RecordingOptions) error {
	f.lastOpts = opts
	return f.startErr
}

func (f *fakeCamera) StopRecording(ctx context.Context) (string, error) {
	if f.stopErr != nil {
		return "", f.stopErr
	}
	return f.stopURI, nil
}

type fakeBlobStore struct {
	uploads map[string][]byte
	failOn  map[string]error
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		uploads: make(map[string][]byte),
		failOn:  make(map[string]error),
	}
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := f.failOn[path]; err != nil {
		return "", err
	}
	f.uploads[path] = data
	return "https://storage.test/" + path, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	delete(f.uploads, path)
	return nil
}

type fakeReportStore struct {
	added  []*models.Report
	addErr error
}

func (f *fakeReportStore) Add(ctx context.Context, report *models.Report) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, report)
	return nil
}

func (f *fakeReportStore) FindByTicket(ctx context.Context, ticketID string) (*models.Report, error) {
	for _, report := range f.added {
		if report.TicketID == ticketID {
			return report, nil
		}
	}
	return nil, ErrReportNotFound
}

func (f *fakeReportStore) CountReports(ctx context.Context) (int, error) {
	return len(f.added), nil
}

type fakeAssets struct {
	data  map[string][]byte
	reads int
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{data: map[string][]byte{
		"file:///tmp/photo.jpg": []byte("jpeg-bytes"),
		"file:///tmp/video.mp4": []byte("mp4-bytes"),
	}}
}

func (f *fakeAssets) ReadAsset(ctx context.Context, uri string) ([]byte, error) {
	f.reads++
	data, ok := f.data[uri]
	if !ok {
		return nil, fmt.Errorf("unknown asset %s", uri)
	}
	return data, nil
}

type fakeEvents struct {
	published []*models.Report
	err       error
}

func (f *fakeEvents) ReportSubmitted(ctx context.Context, report *models.Report) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, report)
	return nil
}
