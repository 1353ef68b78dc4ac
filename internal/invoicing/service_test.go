package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	counters map[string]Counter
}

func newMockRepository() *mockRepository {
	return &mockRepository{counters: make(map[string]Counter)}
}

func (m *mockRepository) NextNumber(ctx context.Context, prefix string, day time.Time) (int, error) {
	c, ok := m.counters[prefix]
	if !ok || !c.LastDate.Equal(day) {
		c = Counter{Prefix: prefix, LastNumber: 1, LastDate: day}
	} else {
		c.LastNumber++
	}
	m.counters[prefix] = c
	return c.LastNumber, nil
}

func TestNextIsMonotonicWithinDay(t *testing.T) {
	svc := NewService(newMockRepository())
	day := time.Date(2025, time.July, 14, 10, 30, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return day })

	for i, want := range []string{"PUR-20250714-0001", "PUR-20250714-0002", "PUR-20250714-0003"} {
		got, err := svc.Next(context.Background(), "PUR")
		require.NoError(t, err)
		assert.Equal(t, want, got, "call %d", i+1)
	}
}

func TestNextResetsOnNewDay(t *testing.T) {
	svc := NewService(newMockRepository())
	day := time.Date(2025, time.July, 14, 23, 59, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return day })

	_, err := svc.Next(context.Background(), "SAL")
	require.NoError(t, err)
	_, err = svc.Next(context.Background(), "SAL")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return day.AddDate(0, 0, 1) })
	got, err := svc.Next(context.Background(), "SAL")
	require.NoError(t, err)
	assert.Equal(t, "SAL-20250715-0001", got)
}

func TestPrefixesCountIndependently(t *testing.T) {
	svc := NewService(newMockRepository())
	day := time.Date(2025, time.July, 14, 12, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return day })

	_, err := svc.Next(context.Background(), "PUR")
	require.NoError(t, err)
	got, err := svc.Next(context.Background(), "SAL")
	require.NoError(t, err)
	assert.Equal(t, "SAL-20250714-0001", got)
}

func TestNextRejectsEmptyPrefix(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Next(context.Background(), "")
	assert.Error(t, err)
}
