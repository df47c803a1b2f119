package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/tester"
)

func statIDs(rows []StatRow) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseID)
	}
	return ids
}

func TestStats_Ranking(t *testing.T) {
	f := newFixture(t)
	// 课程 2..6 分别被推荐 5,5,3,1,0 次
	counts := map[int64]int{2: 5, 3: 5, 4: 3, 5: 1, 6: 0}
	for id, n := range counts {
		tester.CreateCourse(t, f.db, id, "Course", true)
		for i := 0; i < n; i++ {
			tester.CreateRecommendation(t, f.db, 1, int64(100+i), id, base.Add(time.Duration(i)*time.Second))
		}
	}

	svc := NewStatsService(f.recs, testLinks, 0)
	view, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3, 4, 5}, statIDs(view.TopRows))
	assert.Equal(t, []int64{5, 4, 2, 3}, statIDs(view.BottomRows))
	assert.Equal(t, 1, view.TopRows[0].Rank)
	assert.EqualValues(t, 5, view.TopRows[0].Count)
	assert.True(t, view.HasTop)
	assert.True(t, view.HasBottom)
	assert.True(t, view.Tabs[1].Active)
}

func TestStats_Limit(t *testing.T) {
	f := newFixture(t)
	for id := int64(2); id <= 8; id++ {
		tester.CreateCourse(t, f.db, id, "Course", true)
		tester.CreateRecommendation(t, f.db, 1, 9, id, base)
	}

	view, err := NewStatsService(f.recs, testLinks, 0).Stats(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.TopRows, DefaultStatsLimit)

	view, err = NewStatsService(f.recs, testLinks, 2).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, statIDs(view.TopRows))
}

func TestStats_DeletedCourseStillCounted(t *testing.T) {
	f := newFixture(t)
	tester.CreateCourse(t, f.db, 2, "Go", true)
	tester.CreateRecommendation(t, f.db, 1, 9, 2, base)
	tester.CreateRecommendation(t, f.db, 1, 9, 3, base)
	tester.DeleteCourse(t, f.db, 3)

	view, err := NewStatsService(f.recs, testLinks, 0).Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, view.TopRows, 2)
	assert.Equal(t, "Go", view.TopRows[0].CourseName)
	assert.Equal(t, unknownCourse, view.TopRows[1].CourseName)
}

func TestStats_Empty(t *testing.T) {
	f := newFixture(t)
	view, err := NewStatsService(f.recs, testLinks, 0).Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, view.HasTop)
	assert.False(t, view.HasBottom)
	assert.Equal(t, noticeNoCoursesFound, view.TopNotice)
	assert.Equal(t, noticeNoRecommendations, view.BottomNotice)
	assert.NotNil(t, view.TopRows)
}
