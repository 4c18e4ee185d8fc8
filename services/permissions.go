package services

import (
	"context"
	"log"

	"github.com/JaneshKapoor/nayraa/models"
)

// PermissionGatekeeper acquires device permissions at session start and on
// user-driven retries. Camera and media-library are hard gates on the
// capture UI; microphone and location degrade the session instead of
// blocking it.
type PermissionGatekeeper struct {
	permissions PermissionRequester
	location    LocationProvider
}

func NewPermissionGatekeeper(permissions PermissionRequester, location LocationProvider) *PermissionGatekeeper {
	return &PermissionGatekeeper{
		permissions: permissions,
		location:    location,
	}
}

// AcquireAll requests camera, media-library, microphone and
// foreground-location in order. A request failure is treated as a denial.
// When location is granted, a one-shot position fetch pre-populates the
// session location; a fetch failure leaves it nil, which keeps the report
// invariant as the single submission gate.
func (g *PermissionGatekeeper) AcquireAll(ctx context.Context) (map[models.Capability]models.PermissionStatus, *models.Coordinates) {
	statuses := make(map[models.Capability]models.PermissionStatus, len(models.Capabilities))
	var coords *models.Coordinates

	for _, capability := range models.Capabilities {
		status, err := g.permissions.Request(ctx, capability)
		if err != nil {
			log.Printf("[gatekeeper] %s permission request failed: %v", capability, err)
			status = models.PermissionDenied
		}
		statuses[capability] = status

		if capability == models.CapabilityLocation && status == models.PermissionGranted {
			coords = g.fetchLocation(ctx)
		}
	}

	return statuses, coords
}

// Retry re-requests a single capability. Requests are idempotent on the
// agent side. A fresh location grant triggers the one-shot position fetch.
func (g *PermissionGatekeeper) Retry(ctx context.Context, capability models.Capability) (models.PermissionStatus, *models.Coordinates, error) {
	status, err := g.permissions.Request(ctx, capability)
	if err != nil {
		return models.PermissionUnknown, nil, err
	}
	var coords *models.Coordinates
	if capability == models.CapabilityLocation && status == models.PermissionGranted {
		coords = g.fetchLocation(ctx)
	}
	return status, coords, nil
}

func (g *PermissionGatekeeper) fetchLocation(ctx context.Context) *models.Coordinates {
	coords, err := g.location.CurrentPosition(ctx)
	if err != nil {
		log.Printf("[gatekeeper] could not get current location: %v", err)
		return nil
	}
	return coords
}
