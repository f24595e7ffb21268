package service

import (
	"context"
	"sort"

	"liencrm_backend/internal/geo"
	"liencrm_backend/internal/leads/repository"
	"liencrm_backend/internal/leads/transport"
	"liencrm_backend/platform/apperr"
)

// Nearby finds open leads within the requested radius of a center point,
// sorted nearest first. The bounding box narrows the candidate set in SQL;
// exact great-circle distance decides membership.
func (s *Service) Nearby(ctx context.Context, req transport.NearbyLeadsRequest) (transport.NearbyLeadsResponse, error) {
	if !geo.ValidCoordinates(req.Latitude, req.Longitude) {
		return transport.NearbyLeadsResponse{}, apperr.Validation("invalid search coordinates")
	}

	box := geo.BoxAround(geo.Point{Lat: req.Latitude, Lng: req.Longitude}, req.RadiusMeters)

	candidates, err := s.repo.ListInBoundingBox(ctx, box, repository.MatchFilters{
		ExcludeDangerous:    req.ExcludeDangerous,
		ExcludeBusiness:     req.ExcludeBusiness,
		ExcludeDoNotContact: req.ExcludeDoNotContact,
		PropertyType:        req.PropertyType,
		MinAmountDue:        req.MinAmountDue,
		MaxAmountDue:        req.MaxAmountDue,
	})
	if err != nil {
		return transport.NearbyLeadsResponse{}, err
	}

	matched := make([]transport.MatchedLeadResponse, 0, len(candidates))
	for _, lead := range candidates {
		if lead.Latitude == nil || lead.Longitude == nil {
			continue
		}
		distance := geo.DistanceMeters(req.Latitude, req.Longitude, *lead.Latitude, *lead.Longitude)
		if distance > req.RadiusMeters {
			continue
		}
		matched = append(matched, transport.MatchedLeadResponse{
			LeadResponse:   toResponse(lead),
			DistanceMeters: distance,
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DistanceMeters < matched[j].DistanceMeters
	})

	return transport.NearbyLeadsResponse{Items: matched, Total: len(matched)}, nil
}
