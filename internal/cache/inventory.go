package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProjectKeyPrefix  = "project:%d"
	UserPlanKeyPrefix = "user:%d:plan"
	ProjectsListKey   = "projects:list:first"
)

const (
	ProjectTTL  = 10 * time.Minute
	UserPlanTTL = 5 * time.Minute
	ListTTL     = 1 * time.Minute
)

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func UserPlanKey(userID uint) string {
	return fmt.Sprintf(UserPlanKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID))
}

func InvalidateProjectsList(ctx context.Context) {
	Invalidate(ctx, ProjectsListKey)
}

func InvalidateUserPlan(ctx context.Context, userID uint) {
	Invalidate(ctx, UserPlanKey(userID))
}
