package geo

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"dispatch-service/src/internal/fare"
)

var ErrNoRoute = errors.New("no route between waypoints")

// Geolocator resolves consecutive waypoint pairs into distance/duration
// segments. A failure here aborts the quote; fares cannot be computed blind.
type Geolocator interface {
	Segments(ctx context.Context, places []string) ([]fare.Segment, error)
}

type mapsGeolocator struct {
	client *maps.Client
}

func NewGeolocator(client *maps.Client) Geolocator {
	return &mapsGeolocator{client: client}
}

func (g *mapsGeolocator) Segments(ctx context.Context, places []string) ([]fare.Segment, error) {
	if len(places) < 2 {
		return nil, ErrNoRoute
	}

	// One matrix call: origins are all stops but the last, destinations all
	// but the first; the diagonal holds the consecutive legs.
	rsp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      places[:len(places)-1],
		Destinations: places[1:],
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix lookup: %w", err)
	}
	if len(rsp.Rows) != len(places)-1 {
		return nil, ErrNoRoute
	}

	segments := make([]fare.Segment, 0, len(places)-1)
	for i, row := range rsp.Rows {
		if i >= len(row.Elements) {
			return nil, ErrNoRoute
		}
		el := row.Elements[i]
		if el.Status != "OK" {
			return nil, fmt.Errorf("%w: leg %d status %s", ErrNoRoute, i, el.Status)
		}
		segments = append(segments, fare.Segment{
			Km:       float64(el.Distance.Meters) / 1000.0,
			Duration: el.Duration.String(),
		})
	}
	return segments, nil
}
