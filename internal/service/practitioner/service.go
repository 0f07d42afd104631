package practitioner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

const (
	nearbyLimit    = 10
	nearbyCacheTTL = 5 * time.Minute
)

type Service struct {
	practitionerRepo repository.PractitionerRepository
	therapyRepo      repository.TherapyRepository
	ratingRepo       repository.RatingRepository
	cache            *gocache.Cache
}

func NewService(
	practitionerRepo repository.PractitionerRepository,
	therapyRepo repository.TherapyRepository,
	ratingRepo repository.RatingRepository,
) *Service {
	return &Service{
		practitionerRepo: practitionerRepo,
		therapyRepo:      therapyRepo,
		ratingRepo:       ratingRepo,
		cache:            gocache.New(nearbyCacheTTL, 10*time.Minute),
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	practitioner, err := s.practitionerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("practitioner", err)
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return practitioner, nil
}

// NearbyModules returns the browse view of the practitioners closest to the
// given point, with their therapy summaries and average rating. Results are
// cached per rounded coordinate, so nearby callers share an entry.
func (s *Service) NearbyModules(ctx context.Context, lat, lng float64) ([]*model.PractitionerModule, error) {
	key := fmt.Sprintf("%.3f:%.3f", lat, lng)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.PractitionerModule), nil
	}

	practitioners, err := s.practitionerRepo.ListWithLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}

	type located struct {
		practitioner *model.Practitioner
		distance     float64
	}
	nearby := make([]located, 0, len(practitioners))
	for _, p := range practitioners {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		nearby = append(nearby, located{p, distance(lat, lng, *p.Latitude, *p.Longitude)})
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].distance < nearby[j].distance })
	if len(nearby) > nearbyLimit {
		nearby = nearby[:nearbyLimit]
	}

	modules := make([]*model.PractitionerModule, 0, len(nearby))
	for _, n := range nearby {
		module, err := s.buildModule(ctx, n.practitioner, n.distance)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}

	s.cache.Set(key, modules, nearbyCacheTTL)
	return modules, nil
}

func (s *Service) buildModule(ctx context.Context, p *model.Practitioner, dist float64) (*model.PractitionerModule, error) {
	therapies, err := s.therapyRepo.ListByPractitioner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapies: %w", err)
	}
	summaries := make([]model.TherapySummary, 0, len(therapies))
	for _, t := range therapies {
		summaries = append(summaries, model.TherapySummary{
			ID:       t.ID,
			Name:     t.Name,
			Price:    t.Price,
			Duration: t.Duration,
		})
	}

	rating, err := s.ratingRepo.AverageForPractitioner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	return &model.PractitionerModule{
		ID:         p.ID.String(),
		ClinicName: p.ClinicName,
		Mobile:     p.Mobile,
		AltMobile:  p.AltMobile,
		Email:      p.Email,
		Rating:     rating,
		Distance:   dist,
		Therapies:  summaries,
	}, nil
}

// distance is the planar distance between two coordinate pairs in degrees.
// Good enough for ranking practitioners in the same city; not a geodesic.
func distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat + dLng*dLng)
}
