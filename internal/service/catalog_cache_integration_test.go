//go:build integration

package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"academy/internal/cache"
	"academy/internal/model"
)

func liveCache(t *testing.T) *cache.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	prefix := fmt.Sprintf("academy-test:%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
		_ = rdb.Close()
	})
	return cache.NewFromRedis(rdb, prefix)
}

func TestCatalogService_RedisCacheHitAndInvalidate(t *testing.T) {
	course := model.Course{ID: "sustainability-essentials", Title: "Sustainability Essentials"}
	courseRepo := new(MockCourseRepository)
	courseRepo.On("List", mock.Anything).Return([]model.Course{course}, nil).Twice()
	courseRepo.On("FindByID", mock.Anything, course.ID).Return(&course, nil).Twice()
	resourceRepo := new(MockResourceRepository)
	resourceRepo.On("List", mock.Anything).Return(sampleResources(), nil).Once()

	svc := NewCatalogService(courseRepo, resourceRepo, liveCache(t), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		courses, err := svc.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, course.Title, courses[0].Title)

		got, err := svc.GetCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, course.Title, got.Title)

		resources, err := svc.ListResources(ctx, model.ResourceFilter{Category: "Tools"})
		require.NoError(t, err)
		require.Len(t, resources, 1)
	}
	courseRepo.AssertNumberOfCalls(t, "List", 1)
	courseRepo.AssertNumberOfCalls(t, "FindByID", 1)

	svc.InvalidateCache(ctx, course.ID)

	_, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	_, err = svc.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	courseRepo.AssertNumberOfCalls(t, "List", 2)
	courseRepo.AssertNumberOfCalls(t, "FindByID", 2)
	resourceRepo.AssertNumberOfCalls(t, "List", 1)
}
