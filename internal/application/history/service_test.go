package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/application"
	"github.com/rooklite/rook/internal/application/history"
	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/domain/analysis/analysistest"
	domain "github.com/rooklite/rook/internal/domain/history"
	"github.com/rooklite/rook/internal/infra/storage"
)

// stepClock advances one second per call.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newService(blobs domain.BlobStore) *history.Service {
	svc := history.NewService(blobs, "", 0, nil)
	svc.Clock = &stepClock{t: time.UnixMilli(1_760_000_000_000)}
	return svc
}

func TestRecordThenListRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemory()
	svc := newService(blobs)

	res := analysistest.Compare()
	in := analysis.Input{PrimaryText: "TaskFlow", SecondaryText: "Asana", MediaA: []analysis.MediaItem{{ID: "m1", Kind: analysis.MediaImage, Data: "data:image/png;base64,AA=="}}}
	saved, err := svc.Record(ctx, res, in)
	require.NoError(t, err)
	assert.Equal(t, analysis.ModeCompare, saved.Mode)
	assert.Equal(t, "Comparison Analysis", saved.Title)
	assert.Equal(t, res.Verdict, saved.Summary)
	assert.Equal(t, saved.Result.AnalysisMode(), saved.Mode)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res, list[0].Result)

	// A fresh service reading the same blob sees the same entry.
	reloaded, err := newService(blobs).List(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, res, reloaded[0].Result)
	assert.Equal(t, in, reloaded[0].Inputs)
}

func TestRecordEvictsBeyondLimit(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemory())

	var ids []string
	for i := 1; i <= 21; i++ {
		res := analysistest.Idea()
		res.OpportunityScan.ProblemSummary = string(rune('A' + i - 1))
		saved, err := svc.Record(ctx, res, analysis.Input{PrimaryText: "idea"})
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Equal(t, ids[20], list[0].ID, "newest first")
	assert.Equal(t, ids[1], list[19].ID)
	for _, e := range list {
		assert.NotEqual(t, ids[0], e.ID, "oldest evicted")
	}
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].Timestamp, list[i].Timestamp)
	}
}

func TestRecordIDsAreUniqueWithinTheSameMillisecond(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService(storage.NewMemory(), "", 0, nil)
	fixed := time.UnixMilli(1_760_000_000_000)
	svc.Clock = application.ClockFunc(func() time.Time { return fixed })

	a, err := svc.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "a"})
	require.NoError(t, err)
	b, err := svc.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "b"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Timestamp, b.Timestamp)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemory())
	first, err := svc.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "a"})
	require.NoError(t, err)
	second, err := svc.Record(ctx, analysistest.Idea(), analysis.Input{PrimaryText: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "does-not-exist"))
	list, _ := svc.List(ctx)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Remove(ctx, first.ID))
	list, _ = svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestCorruptOrMissingBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, blob := range map[string]string{
		"not json":    "{{{",
		"wrong shape": `{"id":"1"}`,
		"bad result":  `[{"id":"1","mode":"audit","result":{"mode":"poem"}}]`,
	} {
		t.Run(name, func(t *testing.T) {
			blobs := storage.NewMemory()
			require.NoError(t, blobs.Save(ctx, history.DefaultKey, []byte(blob)))
			svc := newService(blobs)
			list, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			_, err = svc.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "x"})
			require.NoError(t, err)
			list, _ = newService(blobs).List(ctx)
			assert.Len(t, list, 1)
		})
	}

	list, err := newService(storage.NewMemory()).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

type failingBlobs struct{}

func (failingBlobs) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func (failingBlobs) Load(context.Context, string) ([]byte, error) {
	return nil, domain.ErrBlobNotFound
}

func TestRecordDoesNotCommitWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	svc := newService(failingBlobs{})
	_, err := svc.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "x"})
	require.Error(t, err)
	list, _ := svc.List(ctx)
	assert.Empty(t, list)
}

// flakyBlobs fails the next `fails` Loads, then delegates.
type flakyBlobs struct {
	domain.BlobStore
	fails int
}

func (f *flakyBlobs) Load(ctx context.Context, key string) ([]byte, error) {
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
	}
	return f.BlobStore.Load(ctx, key)
}

func TestBackendLoadErrorKeepsStoredHistory(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	seed := newService(mem)
	for i := 0; i < 5; i++ {
		_, err := seed.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "seed"})
		require.NoError(t, err)
	}

	blobs := &flakyBlobs{BlobStore: mem, fails: 1}
	svc := newService(blobs)

	_, err := svc.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	blobs.fails = 1
	_, err = svc.Record(ctx, analysistest.Idea(), analysis.Input{PrimaryText: "new"})
	require.Error(t, err)

	blobs.fails = 1
	require.Error(t, svc.Remove(ctx, "anything"))

	blobs.fails = 1
	_, err = svc.Get(ctx, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	stored, err := newService(mem).List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5, "failed loads must not overwrite the blob")

	// Once the backend answers again the new record lands on top of the old list.
	_, err = svc.Record(ctx, analysistest.Idea(), analysis.Input{PrimaryText: "new"})
	require.NoError(t, err)
	stored, err = newService(mem).List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestServicesSharingABlobSeeEachOthersWrites(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	a, b := newService(mem), newService(mem)

	first, err := a.Record(ctx, analysistest.Audit(), analysis.Input{PrimaryText: "a"})
	require.NoError(t, err)

	list, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, b.Remove(ctx, first.ID))
	_, err = a.Record(ctx, analysistest.Idea(), analysis.Input{PrimaryText: "b"})
	require.NoError(t, err)

	list, err = a.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "a must not resurrect the entry b removed")
	assert.NotEqual(t, first.ID, list[0].ID)
}
