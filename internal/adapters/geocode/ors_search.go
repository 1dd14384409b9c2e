package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/obs"
)

type searchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// searchMany resolves addresses one at a time with ORS /geocode/search.
// Each call goes through doWithRetry.
func (o *ORSGeocoder) searchMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Point, err error) {
	defer obs.Time(ctx, "ors.searchMany")(&err)

	out := make(map[string]domain.Point, len(addresses))
	for _, a := range addresses {
		p, err := o.search(ctx, a)
		if err != nil {
			return nil, err
		}
		out[a] = p
	}

	return out, nil
}

func (o *ORSGeocoder) search(ctx context.Context, address string) (domain.Point, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Point{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Point{}, fmt.Errorf("decode geocode response for %q: %w", address, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Point{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Point{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	// ORS answers GeoJSON order: [lon, lat].
	p := domain.Point{Lon: coords[0], Lat: coords[1]}
	if !p.IsFinite() {
		return domain.Point{}, fmt.Errorf("non-finite coordinates for %q", address)
	}
	return p, nil
}
