package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_OneRowPerReceiver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRecommendationService(f.recs, func() time.Time { return base.Add(1500 * time.Millisecond) })

	n, err := svc.Recommend(ctx, Caller{UserID: 1}, RecommendInput{CourseID: 7, ReceiverIDs: []int64{2, 3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.EqualValues(t, 3, f.count(t))

	sent, err := f.recs.ListBySender(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sent, 3)
	for i, r := range sent {
		assert.Equal(t, int64(i+2), r.ReceiverID)
		assert.Equal(t, int64(7), r.CourseID)
		assert.Equal(t, "2025-06-01 09:00:01", r.CreatedOn.String())
	}
}

func TestRecommend_DuplicatesAccumulate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRecommendationService(f.recs, nil)

	in := RecommendInput{CourseID: 7, ReceiverIDs: []int64{2}}
	_, err := svc.Recommend(ctx, Caller{UserID: 1}, in)
	require.NoError(t, err)
	_, err = svc.Recommend(ctx, Caller{UserID: 1}, in)
	require.NoError(t, err)

	assert.EqualValues(t, 2, f.count(t))
}

func TestRecommend_BatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRecommendationService(f.recs, nil)

	require.NoError(t, f.db.Exec(`CREATE TRIGGER reject_receiver BEFORE INSERT ON recommendations
		WHEN NEW.receiver_id = 999
		BEGIN SELECT RAISE(ABORT, 'receiver rejected'); END`).Error)

	n, err := svc.Recommend(ctx, Caller{UserID: 1}, RecommendInput{CourseID: 7, ReceiverIDs: []int64{2, 3, 999}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receiver rejected")
	assert.Zero(t, n)
	assert.Zero(t, f.count(t))

	// 失败的批次不影响后续写入
	n, err = svc.Recommend(ctx, Caller{UserID: 1}, RecommendInput{CourseID: 7, ReceiverIDs: []int64{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.EqualValues(t, 2, f.count(t))
}

func TestRecommend_Validation(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		in     RecommendInput
		want   error
	}{
		{"no receivers", Caller{UserID: 1}, RecommendInput{CourseID: 7}, ErrInvalidRecommendation},
		{"no course", Caller{UserID: 1}, RecommendInput{ReceiverIDs: []int64{2}}, ErrInvalidRecommendation},
		{"bad receiver", Caller{UserID: 1}, RecommendInput{CourseID: 7, ReceiverIDs: []int64{2, 0}}, ErrInvalidRecommendation},
		{"anonymous caller", Caller{}, RecommendInput{CourseID: 7, ReceiverIDs: []int64{2}}, ErrInvalidUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewRecommendationService(f.recs, nil)

			n, err := svc.Recommend(context.Background(), tt.caller, tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, n)
			assert.Zero(t, f.count(t))
		})
	}
}
