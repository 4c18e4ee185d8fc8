package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaneshKapoor/nayraa/config"
	"github.com/JaneshKapoor/nayraa/handlers"
	"github.com/JaneshKapoor/nayraa/models"
	"github.com/JaneshKapoor/nayraa/router"
	"github.com/JaneshKapoor/nayraa/services"
)

// stubDevice plays the device agent: permissions, camera, location and asset
// reads, all in-memory.
type stubDevice struct {
	statuses map[models.Capability]models.PermissionStatus
	coords   *models.Coordinates
	assets   map[string][]byte
}

func newStubDevice() *stubDevice {
	return &stubDevice{
		statuses: map[models.Capability]models.PermissionStatus{},
		coords:   &models.Coordinates{Latitude: 40.7128, Longitude: -74.006},
		assets: map[string][]byte{
			"file:///tmp/photo.jpg": []byte("jpeg-bytes"),
			"file:///tmp/video.mp4": []byte("mp4-bytes"),
		},
	}
}

func (d *stubDevice) Request(ctx context.Context, capability models.Capability) (models.PermissionStatus, error) {
	if status, ok := d.statuses[capability]; ok {
		return status, nil
	}
	return models.PermissionGranted, nil
}

func (d *stubDevice) CurrentPosition(ctx context.Context) (*models.Coordinates, error) {
	return d.coords, nil
}

func (d *stubDevice) TakePicture(ctx context.Context) (string, error) {
	return "file:///tmp/photo.jpg", nil
}

func (d *stubDevice) StartRecording(ctx context.Context, opts services.RecordingOptions) error {
	return nil
}

func (d *stubDevice) StopRecording(ctx context.Context) (string, error) {
	return "file:///tmp/video.mp4", nil
}

func (d *stubDevice) ReadAsset(ctx context.Context, uri string) ([]byte, error) {
	data, ok := d.assets[uri]
	if !ok {
		return nil, fmt.Errorf("unknown asset %s", uri)
	}
	return data, nil
}

type stubBlobStore struct {
	uploads map[string][]byte
	deleted []string
}

func (s *stubBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.uploads[path] = data
	return "https://storage.test/" + path, nil
}

func (s *stubBlobStore) Delete(ctx context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

type stubReportStore struct {
	added []*models.Report
}

func (s *stubReportStore) Add(ctx context.Context, report *models.Report) error {
	s.added = append(s.added, report)
	return nil
}

func (s *stubReportStore) FindByTicket(ctx context.Context, ticketID string) (*models.Report, error) {
	for _, report := range s.added {
		if report.TicketID == ticketID {
			return report, nil
		}
	}
	return nil, services.ErrReportNotFound
}

func (s *stubReportStore) CountReports(ctx context.Context) (int, error) {
	return len(s.added), nil
}

type testServer struct {
	engine  *gin.Engine
	device  *stubDevice
	blobs   *stubBlobStore
	reports *stubReportStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	device := newStubDevice()
	blobs := &stubBlobStore{uploads: make(map[string][]byte)}
	reports := &stubReportStore{}

	gatekeeper := services.NewPermissionGatekeeper(device, device)
	submitter := services.NewReportSubmitter(blobs, reports, device, nil)
	sessions := services.NewCaptureSessionService(gatekeeper, device, submitter)
	geocoder := services.NewGeocoderClient("http://127.0.0.1:0", "test-key")

	engine := gin.New()
	router.Register(engine,
		handlers.NewApp(config.Config{}, reports),
		handlers.NewSessionHandler(sessions),
		handlers.NewSearchHandler(geocoder),
		handlers.NewReportHandler(reports))

	return &testServer{engine: engine, device: device, blobs: blobs, reports: reports}
}

func (ts *testServer) do(t *testing.T, method, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "response body: %s", w.Body.String())
	return w.Code, body
}

func startSession(t *testing.T, ts *testServer) string {
	t.Helper()
	code, body := ts.do(t, http.MethodPost, "/api/sessions")
	require.Equal(t, http.StatusCreated, code)
	session := body["session"].(map[string]any)
	return session["id"].(string)
}

func TestReportFlowEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)

	code, _ := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/photo")
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/start")
	require.Equal(t, http.StatusOK, code)

	code, body := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/stop")
	require.Equal(t, http.StatusOK, code)
	session := body["session"].(map[string]any)
	assert.Equal(t, "review", session["state"])

	code, body = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/submit")
	require.Equal(t, http.StatusOK, code)

	ticketID := body["ticket_id"].(string)
	assert.Regexp(t, regexp.MustCompile(`^TICKET_\d+_\d+$`), ticketID)
	assert.Equal(t, "Report submitted successfully!\nTicket ID: "+ticketID, body["message"])
	assert.Len(t, ts.blobs.uploads, 2)
	require.Len(t, ts.reports.added, 1)

	code, body = ts.do(t, http.MethodGet, "/api/reports/"+ticketID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending", body["status"])
}

func TestSubmitWithoutLocationIsRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.device.statuses[models.CapabilityLocation] = models.PermissionDenied
	id := startSession(t, ts)

	ts.do(t, http.MethodPost, "/api/sessions/"+id+"/photo")
	ts.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/start")
	ts.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/stop")

	code, body := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/submit")
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "missing information", body["error"])
	assert.Equal(t, "Please ensure a photo, video, and location are all captured before submitting.", body["message"])
	assert.Empty(t, ts.blobs.uploads, "nothing may reach storage before validation")
}

func TestCaptureDeniedWithoutCameraPermission(t *testing.T) {
	ts := newTestServer(t)
	ts.device.statuses[models.CapabilityCamera] = models.PermissionDenied
	id := startSession(t, ts)

	code, body := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/photo")
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "camera", body["capability"])
	assert.Equal(t, true, body["retryable"])
}

func TestMutedWarningDeliveredOnce(t *testing.T) {
	ts := newTestServer(t)
	ts.device.statuses[models.CapabilityMicrophone] = models.PermissionDenied

	code, body := ts.do(t, http.MethodPost, "/api/sessions")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Microphone permission was denied. Recording will have no audio.", body["warning"])
	id := body["session"].(map[string]any)["id"].(string)

	_, body = ts.do(t, http.MethodGet, "/api/sessions/"+id)
	assert.NotContains(t, body, "warning")
}

func TestSessionNotFound(t *testing.T) {
	ts := newTestServer(t)
	code, _ := ts.do(t, http.MethodGet, "/api/sessions/nope")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodPost, "/api/sessions/nope/submit")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRetryPermissionRejectsUnknownCapability(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)

	code, _ := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/permissions/bluetooth/retry")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStepOrderViolationsConflict(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)

	code, _ := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/start")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/video/retake")
	assert.Equal(t, http.StatusConflict, code)
}

func TestDestroySession(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)

	code, _ := ts.do(t, http.MethodDelete, "/api/sessions/"+id)
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, http.MethodGet, "/api/sessions/"+id)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReportLookupUnknownTicket(t *testing.T) {
	ts := newTestServer(t)
	code, _ := ts.do(t, http.MethodGet, "/api/reports/TICKET_0_0")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTechnicianRoleStub(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodPost, "/api/roles/technician")
	assert.Equal(t, http.StatusNotImplemented, code)
	assert.Equal(t, "Technician mode is not implemented yet.", body["message"])
}

func TestHealthProbe(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["firestore"])
}
