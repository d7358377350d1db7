package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/layout"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	st := NewStore(&config.Config{SessionTTL: ttl}, zap.NewNop())
	st.now = func() time.Time { return now }
	return st, &now
}

func newTestEditor(t *testing.T) *layout.Editor {
	t.Helper()
	doc, err := layout.NewDocument("Badge", layout.LabelSize{WidthMM: 62, HeightMM: 29}, false, layout.DefaultConverter())
	require.NoError(t, err)
	return layout.NewEditor(doc)
}

func TestStore_CreateAndGet(t *testing.T) {
	st, _ := newTestStore(t, time.Hour)

	fields := []layout.VisibleField{{ID: "f1", Label: "Company", Type: layout.FieldText}}
	s := st.Create("evt-1", "", newTestEditor(t), fields, layout.DefaultSamples())
	require.NotEmpty(t, s.ID)

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, fields, got.Fields())
	assert.Equal(t, 1, st.Len())

	_, ok = st.Get("missing")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	st, _ := newTestStore(t, time.Hour)
	s := st.Create("evt-1", "d1", newTestEditor(t), nil, layout.DefaultSamples())

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	assert.Equal(t, 0, st.Len())
}

func TestStore_SweepDropsIdleSessions(t *testing.T) {
	st, now := newTestStore(t, time.Hour)
	idle := st.Create("evt-1", "", newTestEditor(t), nil, layout.DefaultSamples())

	*now = now.Add(45 * time.Minute)
	active := st.Create("evt-1", "", newTestEditor(t), nil, layout.DefaultSamples())

	*now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, st.Sweep())

	_, ok := st.Get(idle.ID)
	assert.False(t, ok)
	_, ok = st.Get(active.ID)
	assert.True(t, ok)
}

func TestStore_GetRefreshesIdleTimer(t *testing.T) {
	st, now := newTestStore(t, time.Hour)
	s := st.Create("evt-1", "", newTestEditor(t), nil, layout.DefaultSamples())

	*now = now.Add(50 * time.Minute)
	_, ok := st.Get(s.ID)
	require.True(t, ok)

	*now = now.Add(50 * time.Minute)
	assert.Equal(t, 0, st.Sweep())
}

func TestStore_SweepDisabled(t *testing.T) {
	st, now := newTestStore(t, 0)
	st.Create("evt-1", "", newTestEditor(t), nil, layout.DefaultSamples())

	*now = now.Add(100 * time.Hour)
	assert.Equal(t, 0, st.Sweep())
}

func TestSession_DoAndDesignID(t *testing.T) {
	st, _ := newTestStore(t, time.Hour)
	s := st.Create("evt-1", "", newTestEditor(t), nil, layout.DefaultSamples())

	err := s.Do(func(ed *layout.Editor) error {
		ed.Document().AddComponent(layout.KeyEventName, "Event name")
		return nil
	})
	require.NoError(t, err)

	s.SetDesignID("d1")
	assert.Equal(t, "d1", s.DesignID())

	_ = s.Do(func(ed *layout.Editor) error {
		assert.Len(t, ed.Document().Placements, 1)
		assert.True(t, ed.Document().Dirty)
		return nil
	})
}
