package app

import (
	"log/slog"

	"github.com/tourhub/tourhub/internal/content/posts"
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/listings/accommodations"
	"github.com/tourhub/tourhub/internal/listings/attractions"
	"github.com/tourhub/tourhub/internal/listings/destinations"
	"github.com/tourhub/tourhub/internal/platform/db"
	"github.com/tourhub/tourhub/jobs"
)

// Repositories groups the storage of every entity.
type Repositories struct {
	Destinations   destinations.Repository
	Attractions    attractions.Repository
	Accommodations accommodations.Repository
	Posts          posts.Repository
}

// PostgresRepositories builds repositories over conn.
func PostgresRepositories(conn db.DBTX) Repositories {
	return Repositories{
		Destinations:   destinations.NewPostgresRepository(conn),
		Attractions:    attractions.NewPostgresRepository(conn),
		Accommodations: accommodations.NewPostgresRepository(conn),
		Posts:          posts.NewPostgresRepository(conn),
	}
}

// MemoryRepositories builds empty in-process repositories.
func MemoryRepositories() Repositories {
	return Repositories{
		Destinations:   destinations.NewMemoryRepository(),
		Attractions:    attractions.NewMemoryRepository(),
		Accommodations: accommodations.NewMemoryRepository(),
		Posts:          posts.NewMemoryRepository(),
	}
}

// Services groups the entity services.
type Services struct {
	Destinations   *destinations.Service
	Attractions    *attractions.Service
	Accommodations *accommodations.Service
	Posts          *posts.Service
}

// NewServices wires every entity service over repos.
func NewServices(repos Repositories, logger *slog.Logger, metrics crud.Recorder) *Services {
	dests := destinations.NewService(repos.Destinations, destinations.Options{Logger: logger, Metrics: metrics})
	return &Services{
		Destinations: dests,
		Attractions: attractions.NewService(repos.Attractions, attractions.Options{
			Logger: logger, Metrics: metrics, Destinations: dests,
		}),
		Accommodations: accommodations.NewService(repos.Accommodations, accommodations.Options{
			Logger: logger, Metrics: metrics, Destinations: dests,
		}),
		Posts: posts.NewService(repos.Posts, posts.Options{Logger: logger, Metrics: metrics}),
	}
}

// Purgers lists the services the purge job drains.
func (s *Services) Purgers() []jobs.Purger {
	return []jobs.Purger{s.Attractions, s.Accommodations, s.Destinations, s.Posts}
}
