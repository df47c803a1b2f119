package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/model"
	"github.com/d60-Lab/recommend-course/internal/tester"
)

// seedInbox 用户 10 从 Ann 收到 5 条推荐，课程 2..6，时间逐分钟递增
func seedInbox(t *testing.T, f *fixture) {
	t.Helper()
	tester.CreateUser(t, f.db, 1, "ann", "Ann", "Lee")
	tester.CreateUser(t, f.db, 10, "bob", "Bob", "Ray")
	for i := int64(0); i < 5; i++ {
		tester.CreateCourse(t, f.db, i+2, "Course "+string(rune('A'+i)), true)
		tester.CreateRecommendation(t, f.db, 1, 10, i+2, base.Add(time.Duration(i)*time.Minute))
	}
}

func TestReader_RecentRespectsLayout(t *testing.T) {
	f := newFixture(t)
	seedInbox(t, f)
	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)
	ctx := context.Background()

	compact, err := svc.Recent(ctx, Caller{UserID: 10}, LayoutCompact)
	require.NoError(t, err)
	require.Len(t, compact, 1)
	assert.Equal(t, int64(6), compact[0].CourseID)

	expanded, err := svc.Recent(ctx, Caller{UserID: 10}, LayoutExpanded)
	require.NoError(t, err)
	require.Len(t, expanded, 4)
	var ids []int64
	for _, r := range expanded {
		ids = append(ids, r.CourseID)
	}
	assert.Equal(t, []int64{6, 5, 4, 3}, ids)

	first := expanded[0]
	assert.Equal(t, "Course E", first.CourseName)
	assert.Equal(t, "https://lms.example.com/course/view.php?id=6", first.CourseURL)
	assert.Equal(t, "Ann Lee", first.SenderName)
	assert.Equal(t, "Sun, 01 Jun 2025, 09:04", first.RecommendedOn)
	assert.Equal(t, generatedImage(6), first.ImageURL)
}

func TestReader_SameTimestampFallsBackToID(t *testing.T) {
	f := newFixture(t)
	tester.CreateUser(t, f.db, 1, "ann", "Ann", "Lee")
	tester.CreateCourse(t, f.db, 2, "Go", true)
	tester.CreateCourse(t, f.db, 3, "Rust", true)
	tester.CreateRecommendation(t, f.db, 1, 10, 2, base)
	tester.CreateRecommendation(t, f.db, 1, 10, 3, base)

	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)
	got, err := svc.Recent(context.Background(), Caller{UserID: 10}, LayoutCompact)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].CourseID)
}

func TestReader_SkipsDeletedCourse(t *testing.T) {
	f := newFixture(t)
	seedInbox(t, f)
	tester.DeleteCourse(t, f.db, 6)
	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)

	got, err := svc.Recent(context.Background(), Caller{UserID: 10}, LayoutCompact)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].CourseID)

	all, err := svc.All(context.Background(), Caller{UserID: 10})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 4)
}

func TestReader_ImageFromOverviewFile(t *testing.T) {
	f := newFixture(t)
	tester.CreateUser(t, f.db, 1, "ann", "Ann", "Lee")
	tester.CreateCourse(t, f.db, 2, "Go", true)
	tester.CreateRecommendation(t, f.db, 1, 10, 2, base)
	require.NoError(t, f.db.Create(&[]model.CourseOverviewFile{
		{CourseID: 2, FilePath: "/", FileName: "notes.pdf", MimeType: "application/pdf", SortOrder: 0},
		{CourseID: 2, FilePath: "/", FileName: "cover art.png", MimeType: "image/png", SortOrder: 1},
	}).Error)

	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)
	got, err := svc.Recent(context.Background(), Caller{UserID: 10}, LayoutExpanded)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://lms.example.com/pluginfile.php/course/2/overviewfiles/cover%20art.png", got[0].ImageURL)
}

func TestReader_Widget(t *testing.T) {
	f := newFixture(t)
	seedInbox(t, f)
	ctx := context.Background()

	svc := NewReaderService(f.recs, f.courses, staticAuthz{CapabilityViewStats: true}, testLinks, nil, nil)
	view, err := svc.Widget(ctx, Caller{UserID: 10}, LayoutCompact)
	require.NoError(t, err)
	assert.Len(t, view.Recommended, 1)
	assert.True(t, view.CanViewHistory)
	assert.Equal(t, PathAll, view.AllURL)
	assert.Equal(t, PathRecommend, view.RecommendURL)

	svc = NewReaderService(f.recs, f.courses, staticAuthz{}, testLinks, nil, nil)
	view, err = svc.Widget(ctx, Caller{UserID: 11}, LayoutExpanded)
	require.NoError(t, err)
	assert.Empty(t, view.Recommended)
	assert.False(t, view.CanViewHistory)
}

func TestReader_All(t *testing.T) {
	f := newFixture(t)
	seedInbox(t, f)
	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)

	view, err := svc.All(context.Background(), Caller{UserID: 10})
	require.NoError(t, err)
	assert.True(t, view.HasRows)
	require.Len(t, view.Rows, 5)
	assert.Equal(t, int64(6), view.Rows[0].CourseID)
	assert.Equal(t, "https://lms.example.com/user/profile.php?id=1", view.Rows[0].SenderURL)

	empty, err := svc.All(context.Background(), Caller{UserID: 99})
	require.NoError(t, err)
	assert.False(t, empty.HasRows)
	assert.Equal(t, noticeNoRecommendations, empty.Notice)
}

func TestReader_History(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReaderService(f.recs, f.courses, nil, testLinks, nil, nil)

	view, err := svc.History(ctx)
	require.NoError(t, err)
	assert.False(t, view.HasRows)
	assert.Equal(t, noticeNoCoursesFound, view.Notice)

	seedInbox(t, f)
	view, err = svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, view.Rows, 5)
	assert.Equal(t, "Ann Lee", view.Rows[0].Sender)
	assert.Equal(t, "Bob Ray", view.Rows[0].Receiver)
	assert.Equal(t, "Course E", view.Rows[0].CourseName)
	require.Len(t, view.Tabs, 2)
	assert.True(t, view.Tabs[0].Active)
	assert.False(t, view.Tabs[1].Active)
}

func TestParseLayout(t *testing.T) {
	assert.Equal(t, LayoutCompact, ParseLayout("compact"))
	assert.Equal(t, LayoutExpanded, ParseLayout("expanded"))
	assert.Equal(t, LayoutExpanded, ParseLayout(""))
	assert.Equal(t, 1, LayoutCompact.Limit())
	assert.Equal(t, 4, LayoutExpanded.Limit())
}
