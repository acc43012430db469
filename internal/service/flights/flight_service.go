package flights

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   logging.Logger
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, log logging.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

// Search filters the full listing, which is served from the cache when
// possible. Cache errors fall back to the database.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	filter.FromAirport = strings.ToUpper(strings.TrimSpace(filter.FromAirport))
	filter.ToAirport = strings.ToUpper(strings.TrimSpace(filter.ToAirport))

	matched := make([]domain.Flight, 0, len(all))
	for _, f := range all {
		if filter.Matches(f) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

func (s *FlightService) list(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.log.Warn(ctx, "flights cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn(ctx, "flights cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
