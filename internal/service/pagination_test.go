package service

import (
	"context"
	"errors"
	"testing"

	"folio/internal/models"
	"folio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogWithPlan(plan string) *CatalogService {
	users := noopUserRepo()
	users.planNameFn = func(_ context.Context, _ uint) (string, error) { return plan, nil }
	return newTestCatalog(noopProjectRepo(), users)
}

func TestEffectivePageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		plan      string
		viewer    models.Principal
		requested int
		want      int
	}{
		{"default when unset", models.PlanPro, models.Principal{UserID: 1}, 0, 10},
		{"default when negative", models.PlanPro, models.Principal{UserID: 1}, -3, 10},
		{"free plan under cap", models.PlanFree, models.Principal{UserID: 1}, 15, 15},
		{"free plan at cap", models.PlanFree, models.Principal{UserID: 1}, 20, 20},
		{"free plan over cap", models.PlanFree, models.Principal{UserID: 1}, 50, 20},
		{"pro plan uncapped", models.PlanPro, models.Principal{UserID: 1}, 50, 50},
		{"no plan uncapped", "", models.Principal{UserID: 1}, 50, 50},
		{"anonymous uncapped", models.PlanFree, models.Principal{}, 50, 50},
		{"anonymous default", models.PlanFree, models.Principal{}, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCatalogWithPlan(tt.plan)
			got, err := svc.effectivePageSize(context.Background(), tt.viewer, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectivePageSize_PlanLookupNotCalledForAnonymous(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	called := false
	users.planNameFn = func(_ context.Context, _ uint) (string, error) {
		called = true
		return models.PlanFree, nil
	}
	svc := newTestCatalog(noopProjectRepo(), users)

	_, err := svc.effectivePageSize(context.Background(), models.Principal{}, 30)
	require.NoError(t, err)
	assert.False(t, called, "anonymous viewers need no plan lookup")
}

func TestEffectivePageSize_PlanLookupFailure(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.planNameFn = func(_ context.Context, _ uint) (string, error) {
		return "", errors.New("connection reset")
	}
	svc := newTestCatalog(noopProjectRepo(), users)

	_, err := svc.effectivePageSize(context.Background(), models.Principal{UserID: 1}, 30)
	assertCode(t, err, models.CodeStorage)
}

func TestListProjects_AnonymousDefaultPage(t *testing.T) {
	t.Parallel()

	repo := noopProjectRepo()
	var gotViewerID uint
	repo.listFn = func(_ context.Context, _ repository.ProjectFilter, viewerID uint) ([]*models.Project, error) {
		gotViewerID = viewerID
		return []*models.Project{{ID: 1}, {ID: 2}}, nil
	}
	svc := newTestCatalog(repo, noopUserRepo())

	// The unfiltered default first page works anonymously without a plan
	// lookup; the liked projection is computed for nobody.
	projects, err := svc.ListProjects(context.Background(), ListProjectsInput{}, models.Principal{})
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, uint(0), gotViewerID)
}
