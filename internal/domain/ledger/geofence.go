package ledger

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// Locator answers whether a reported position is near a job site. Lookups
// are advisory: the registry never blocks a command on one, and a failed or
// slow lookup neither denies nor authorizes anything.
type Locator interface {
	Near(ctx context.Context, job Job, lat, lng float64) (bool, error)
}

// checkLocation runs the advisory geofence check after a command has already
// committed. It holds no ledger lock; an out-of-range result surfaces as a
// warning event for the crew lead to review.
func (s *Service) checkLocation(job Job, employeeID string, meta SessionMeta) {
	if s.locator == nil || meta.Latitude == nil || meta.Longitude == nil {
		return
	}
	lat, lng := *meta.Latitude, *meta.Longitude

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		near, err := s.locator.Near(ctx, job, lat, lng)
		if err != nil {
			s.log.Warn("location check failed",
				zap.String("employeeId", employeeID),
				zap.String("jobId", job.ID),
				zap.Error(err))
			return
		}
		if near {
			return
		}
		s.log.Warn("session started away from job site",
			zap.String("employeeId", employeeID),
			zap.String("jobId", job.ID))
		s.emit(EventLocationWarning, employeeID, "session started away from job site", map[string]any{
			"jobId": job.ID,
		})
	}()
}

// RadiusLocator is the default locator: straight haversine distance against
// the job's coordinates and geofence radius. Jobs without coordinates pass.
type RadiusLocator struct {
	// DefaultRadiusM applies when the job has no radius of its own.
	DefaultRadiusM float64
}

func (l RadiusLocator) Near(_ context.Context, job Job, lat, lng float64) (bool, error) {
	if job.Latitude == nil || job.Longitude == nil {
		return true, nil
	}
	radius := job.GeofenceRadiusM
	if radius <= 0 {
		radius = l.DefaultRadiusM
	}
	if radius <= 0 {
		return true, nil
	}
	return haversineMeters(*job.Latitude, *job.Longitude, lat, lng) <= radius, nil
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusM = 6371000

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}
