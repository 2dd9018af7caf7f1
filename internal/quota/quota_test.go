package quota_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/store/mocks"
)

func TestLimiter_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
		want  quota.Status
	}{
		{
			name:  "fresh client",
			count: 0,
			want:  quota.Status{ClientID: "c1", Count: 0, Limit: 4, Remaining: 4},
		},
		{
			name:  "one left",
			count: 3,
			want:  quota.Status{ClientID: "c1", Count: 3, Limit: 4, Remaining: 1},
		},
		{
			name:  "at limit",
			count: 4,
			want:  quota.Status{ClientID: "c1", Count: 4, Limit: 4, Remaining: 0, Reached: true},
		},
		{
			name:  "over limit never goes negative",
			count: 9,
			want:  quota.Status{ClientID: "c1", Count: 9, Limit: 4, Remaining: 0, Reached: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := mocks.NewMockStore(t)
			ms.EXPECT().GetSearchCount(mock.Anything, "c1").Return(tt.count, nil).Once()

			got, err := quota.New(ms, 0).Check(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimiter_Enforce(t *testing.T) {
	t.Parallel()

	ms := mocks.NewMockStore(t)
	ms.EXPECT().GetSearchCount(mock.Anything, "c1").Return(1, nil).Once()
	ms.EXPECT().GetSearchCount(mock.Anything, "c2").Return(2, nil).Once()

	l := quota.New(ms, 2)

	st, err := l.Enforce(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Remaining)

	st, err = l.Enforce(context.Background(), "c2")
	require.ErrorIs(t, err, quota.ErrLimitReached)
	assert.True(t, st.Reached)
}

func TestLimiter_Record(t *testing.T) {
	t.Parallel()

	ms := mocks.NewMockStore(t)
	ms.EXPECT().IncrementSearchCount(mock.Anything, "c1").Return(4, nil).Once()

	st, err := quota.New(ms, 4).Record(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, st.Reached)
	assert.Equal(t, 4, st.Count)
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()

	ms := mocks.NewMockStore(t)
	ms.EXPECT().ResetSearchCount(mock.Anything, "c1").Return(nil).Once()

	require.NoError(t, quota.New(ms, 4).Reset(context.Background(), "c1"))
}

func TestLimiter_StoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	ms := mocks.NewMockStore(t)
	ms.EXPECT().GetSearchCount(mock.Anything, "c1").Return(0, boom).Once()
	ms.EXPECT().IncrementSearchCount(mock.Anything, "c1").Return(0, boom).Once()
	ms.EXPECT().ResetSearchCount(mock.Anything, "c1").Return(boom).Once()

	l := quota.New(ms, 4)

	_, err := l.Check(context.Background(), "c1")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "checking search quota")

	_, err = l.Record(context.Background(), "c1")
	require.ErrorIs(t, err, boom)

	err = l.Reset(context.Background(), "c1")
	require.ErrorIs(t, err, boom)
}

func TestLimiter_NoClient(t *testing.T) {
	t.Parallel()

	l := quota.New(mocks.NewMockStore(t), 4)

	_, err := l.Check(context.Background(), "")
	require.ErrorIs(t, err, quota.ErrNoClient)
	_, err = l.Record(context.Background(), "")
	require.ErrorIs(t, err, quota.ErrNoClient)
	require.ErrorIs(t, l.Reset(context.Background(), ""), quota.ErrNoClient)
}

func TestLimiter_DefaultLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, quota.DefaultLimit, quota.New(nil, -1).Limit())
	assert.Equal(t, 10, quota.New(nil, 10).Limit())
}

func TestClientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		remote string
		want   string
	}{
		{name: "header wins", header: " abc-123 ", remote: "10.0.0.1:5555", want: "abc-123"},
		{name: "ipv4 remote", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "ipv6 remote", remote: "[::1]:8080", want: "::1"},
		{name: "bare ip", remote: "192.168.1.9", want: "192.168.1.9"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, quota.ClientID(tt.header, tt.remote))
		})
	}
}

func TestClientContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, quota.ClientFromContext(context.Background()))

	ctx := quota.WithClient(context.Background(), "10.0.0.1")
	assert.Equal(t, "10.0.0.1", quota.ClientFromContext(ctx))
}
