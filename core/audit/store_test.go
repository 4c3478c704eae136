package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/promo/core/events"
)

func sampleRecords(base time.Time) []Record {
	return []Record{
		{ID: "1", Timestamp: base, Festival: "Spring Festival", PricePercent: 30, Text: "t1", Outcome: events.OutcomeApplied},
		{ID: "2", Timestamp: base.Add(time.Minute), Festival: "Christmas", Outcome: events.OutcomeNoPromotion, Error: "Christmas: no active promotion in the store"},
		{ID: "3", Timestamp: base.Add(2 * time.Minute), Festival: "Spring Festival", PricePercent: 30, Text: "t1", Outcome: events.OutcomeApplied},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	for _, r := range sampleRecords(base) {
		require.NoError(t, store.Append(ctx, r))
	}

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.True(t, all[0].Timestamp.Equal(base))

	spring, err := store.Query(ctx, Query{Festival: "Spring Festival"})
	require.NoError(t, err)
	assert.Len(t, spring, 2)

	misses, err := store.Query(ctx, Query{Outcome: events.OutcomeNoPromotion})
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.Equal(t, "Christmas", misses[0].Festival)

	window, err := store.Query(ctx, Query{Start: base.Add(30 * time.Second), End: base.Add(90 * time.Second)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "2", window[0].ID)
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestJSONLStore_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), Record{ID: "a", Festival: "x"}))
	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestJSONLStore_LongRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	long := strings.Repeat("x", 100*1024)
	huge := strings.Repeat("y", MaxJSONLRecord)
	require.NoError(t, store.Append(ctx, Record{ID: "long", Festival: long, Outcome: events.OutcomeNoPromotion}))
	require.NoError(t, store.Append(ctx, Record{ID: "huge", Festival: huge, Error: huge, Outcome: events.OutcomeNoPromotion}))
	require.NoError(t, store.Append(ctx, Record{ID: "after", Festival: "Spring Festival", Outcome: events.OutcomeApplied}))

	out, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "long", out[0].ID)
	assert.Equal(t, long, out[0].Festival)
	assert.Equal(t, "after", out[1].ID)
}

func TestJSONLStore_LastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"a","festival":"x","outcome":"applied"}`), 0o644))
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestFromExecution(t *testing.T) {
	ev := events.NewExecution("Christmas")
	ev.Err = errors.New("Christmas: no active promotion in the store")
	r := FromExecution(ev)
	assert.Equal(t, ev.ID, r.ID)
	assert.Equal(t, events.OutcomeNoPromotion, r.Outcome)
	assert.Equal(t, ev.Err.Error(), r.Error)
}

func TestConfig(t *testing.T) {
	c := Config{}
	c.SetDefaults()
	assert.Equal(t, BackendNone, c.Backend)
	assert.NoError(t, c.Validate())

	c = Config{Backend: BackendSQLite}
	c.SetDefaults()
	assert.Equal(t, "promotions.db", c.Path)

	assert.Error(t, Config{Backend: "mongo", Path: "x"}.Validate())
	assert.Error(t, Config{Backend: BackendJSONL}.Validate())
	_, err := Open(Config{Backend: "mongo"})
	assert.Error(t, err)

	s, err := Open(Config{Backend: BackendJSONL, Path: filepath.Join(t.TempDir(), "a.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)
}

func TestCollect(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	ch := make(chan events.Execution, 2)
	ch <- events.Execution{ID: "a", Festival: "Spring Festival", Found: true, PricePercent: 30}
	ch <- events.Execution{ID: "b", Festival: "Christmas"}
	close(ch)

	Collect(context.Background(), ch, store, nil)

	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, events.OutcomeApplied, out[0].Outcome)
	assert.Equal(t, events.OutcomeNoPromotion, out[1].Outcome)
}
