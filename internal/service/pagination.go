package service

import (
	"context"

	"folio/internal/cache"
	"folio/internal/models"
)

const (
	defaultPageSize = 10
	// freePlanPageCap is the listing ceiling for the lowest tier.
	freePlanPageCap = 20
)

// effectivePageSize derives the page size actually applied to a listing.
// Anonymous viewers get what they asked for (default 10); viewers on the
// free plan are capped. The plan name lookup is cached per user.
func (s *CatalogService) effectivePageSize(ctx context.Context, viewer models.Principal, requested int) (int, error) {
	size := requested
	if size <= 0 {
		size = defaultPageSize
	}
	if viewer.Anonymous() {
		return size, nil
	}

	var plan string
	err := cache.Aside(ctx, cache.UserPlanKey(viewer.UserID), &plan, cache.UserPlanTTL, func() error {
		var fetchErr error
		plan, fetchErr = s.users.PlanName(ctx, viewer.UserID)
		return fetchErr
	})
	if err != nil {
		return 0, models.NewStorageError(err)
	}

	if plan == models.PlanFree && size > freePlanPageCap {
		size = freePlanPageCap
	}
	return size, nil
}
