package workflow

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/metrics"
	"github.com/stemsi/school-registry/internal/model"
)

// ListingResult is the record set to render. On failure Schools is empty and
// Failed is set so the view can offer a retry.
type ListingResult struct {
	Schools []model.School
	Failed  bool
	Err     error
}

// Listing fetches every record once per activation.
type Listing struct {
	store RecordStore
	log   zerolog.Logger
}

func NewListing(store RecordStore, log zerolog.Logger) *Listing {
	return &Listing{
		store: store,
		log:   log.With().Str("component", "listing_workflow").Logger(),
	}
}

// Run performs exactly one ListAll call and returns the records by descending id.
func (l *Listing) Run(ctx context.Context) *ListingResult {
	schools, err := l.store.ListAll(ctx)
	if err != nil {
		l.log.Error().Err(err).Msg("Error fetching schools")
		metrics.Listings.WithLabelValues("failed").Inc()
		return &ListingResult{Schools: []model.School{}, Failed: true, Err: err}
	}

	if schools == nil {
		schools = []model.School{}
	}
	sort.SliceStable(schools, func(i, j int) bool { return schools[i].ID > schools[j].ID })

	metrics.Listings.WithLabelValues("ok").Inc()
	return &ListingResult{Schools: schools}
}
