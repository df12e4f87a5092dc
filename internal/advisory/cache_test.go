package advisory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"enemyintel/internal/stats"
)

// fakeClient counts calls and optionally blocks until gate is closed.
type fakeClient struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
	text  string
}

func (f *fakeClient) Model() string { return "fake" }

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "advice for: " + prompt, nil
}

// memBackend is a map-backed Backend.
type memBackend struct {
	mu   sync.Mutex
	data map[string]string
	puts int
}

func (m *memBackend) All(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memBackend) Put(_ context.Context, key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = text
	m.puts++
	return nil
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "enemy_Runebear_Limgrave", EnemyKey("Runebear", "Limgrave"))
	assert.Equal(t, EnemyKey("Runebear", "Limgrave"), EnemyKey("Runebear", "Limgrave"))
	assert.NotEqual(t, EnemyKey("Runebear", "Limgrave"), EnemyKey("Runebear", "Caelid"))
	assert.Equal(t, "region_Caelid", RegionKey("Caelid"))
}

func TestAdvise_SecondCallIsCached(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{}
	backend := &memBackend{}
	c, err := New(context.Background(), backend, client)
	require.NoError(t, err)

	key := EnemyKey("Runebear", "Limgrave")
	first := c.Advise(context.Background(), key, "runebear prompt")
	second := c.Advise(context.Background(), key, "a different prompt")

	assert.Equal(t, "advice for: runebear prompt", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), client.calls.Load())
	assert.Equal(t, 1, backend.puts, "persisted right after the first computation")
}

func TestAdvise_FailureFallsBackAndIsNotCached(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{err: errors.New("overloaded")}
	c, err := New(context.Background(), nil, client)
	require.NoError(t, err)

	key := RegionKey("Caelid")
	assert.Equal(t, FallbackText, c.Advise(context.Background(), key, "p"))
	assert.Equal(t, FallbackText, c.Advise(context.Background(), key, "p"))
	assert.Equal(t, int32(2), client.calls.Load())
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestAdvise_NoClient(t *testing.T) {
	c, err := New(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackText, c.Advise(context.Background(), "enemy_x_y", "p"))
	assert.Equal(t, 0, c.Len())
}

func TestAdvise_ConcurrentMissesShareOneCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{gate: make(chan struct{}), text: "shared"}
	c, err := New(context.Background(), nil, client)
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Advise(context.Background(), "enemy_Malenia_Haligtree", "p")
		}(i)
	}

	require.Eventually(t, func() bool { return client.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(client.gate)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestAdviseAsync_Pending(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{gate: make(chan struct{}), text: "use frost"}
	c, err := New(context.Background(), nil, client)
	require.NoError(t, err)

	p := c.AdviseAsync("enemy_Rykard_Volcano Manor", "p")
	assert.Equal(t, "enemy_Rykard_Volcano Manor", p.Key())
	assert.False(t, p.Ready())
	_, ok := p.Result()
	assert.False(t, ok)

	short, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	_, err = p.Wait(short)
	cancel()
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(client.gate)
	text, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "use frost", text)
	assert.True(t, p.Ready())

	again := c.AdviseAsync("enemy_Rykard_Volcano Manor", "p")
	assert.True(t, again.Ready(), "hits complete immediately")
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestAdvise_CallerCancelDoesNotAbortCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{gate: make(chan struct{}), text: "late answer"}
	c, err := New(context.Background(), nil, client)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan string)
	go func() { done <- c.Advise(ctx, "region_Liurnia", "p") }()

	require.Eventually(t, func() bool { return client.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.Equal(t, FallbackText, <-done)

	close(client.gate)
	require.Eventually(t, func() bool {
		text, ok := c.Get("region_Liurnia")
		return ok && text == "late answer"
	}, time.Second, time.Millisecond)
}

func TestAdvise_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{gate: make(chan struct{})}
	c, err := New(context.Background(), nil, client, WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, FallbackText, c.Advise(context.Background(), "enemy_a_b", "p"))
	close(client.gate)
}

func TestUpdateViewDebug(t *testing.T) {
	backend := &memBackend{}
	c, err := New(context.Background(), backend, nil)
	require.NoError(t, err)

	for i := 11; i >= 0; i-- {
		require.NoError(t, c.Update(context.Background(), EnemyKey(fmt.Sprintf("Enemy %02d", i), "Limgrave"), "text"))
	}
	text, ok := c.Get(EnemyKey("Enemy 03", "Limgrave"))
	require.True(t, ok)
	assert.Equal(t, "text", text)
	assert.Equal(t, 12, backend.puts)

	info := c.Debug()
	assert.Equal(t, 12, info.Size)
	require.Len(t, info.SampleKeys, 10)
	assert.Equal(t, "enemy_Enemy 00_Limgrave", info.SampleKeys[0])
	assert.Equal(t, "enemy_Enemy 09_Limgrave", info.SampleKeys[9])
}

func TestCoverage(t *testing.T) {
	c, err := New(context.Background(), &memBackend{data: map[string]string{
		EnemyKey("Runebear", "Caelid"): "x",
		EnemyKey("Margit", "Stormveil"): "y",
	}}, nil)
	require.NoError(t, err)

	cov := c.Coverage([]stats.EnemyRecord{
		{Name: "Runebear", Location: "Limgrave"},
		{Name: "Runebear", Location: "Caelid"},
		{Name: "Godrick", Location: "Stormveil"},
		{Name: "Margit", Location: "Limgrave"},
	})
	assert.Equal(t, Coverage{TotalEnemies: 3, CachedEnemies: 1, Percentage: 33.3}, cov)

	assert.Equal(t, Coverage{}, c.Coverage(nil))
}

func TestStore_PersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "advisory.db")
	store, err := OpenStore(path)
	require.NoError(t, err)

	client := &fakeClient{}
	c, err := New(context.Background(), store, client)
	require.NoError(t, err)
	key := EnemyKey("Runebear", "Limgrave")
	first := c.Advise(context.Background(), key, "p")
	require.NoError(t, c.Update(context.Background(), RegionKey("Limgrave"), "go slash"))
	require.NoError(t, c.Update(context.Background(), RegionKey("Limgrave"), "go strike"))
	require.NoError(t, store.Close())

	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	fresh := &fakeClient{}
	c2, err := New(context.Background(), store, fresh)
	require.NoError(t, err)
	assert.Equal(t, first, c2.Advise(context.Background(), key, "p"))
	assert.Equal(t, int32(0), fresh.calls.Load())
	text, _ := c2.Get(RegionKey("Limgrave"))
	assert.Equal(t, "go strike", text)
	assert.Equal(t, 2, c2.Len())
}

func TestStore_SchemaMismatchRecreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisory.db")
	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "k", "v"))
	_, err = store.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()
	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCoverage_HalfPercentRoundsToEven(t *testing.T) {
	c, err := New(context.Background(), &memBackend{data: map[string]string{
		EnemyKey("Enemy 00", "Limgrave"): "x",
	}}, nil)
	require.NoError(t, err)

	recs := make([]stats.EnemyRecord, 16)
	for i := range recs {
		recs[i] = stats.EnemyRecord{Name: fmt.Sprintf("Enemy %02d", i), Location: "Limgrave"}
	}
	assert.Equal(t, Coverage{TotalEnemies: 16, CachedEnemies: 1, Percentage: 6.2}, c.Coverage(recs))
}

type panickingClient struct{}

func (panickingClient) Model() string { return "panicky" }

func (panickingClient) Complete(context.Context, string) (string, error) {
	panic("decoder blew up")
}

func TestAdvise_ClientPanicYieldsFallback(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &memBackend{}
	c, err := New(context.Background(), backend, panickingClient{})
	require.NoError(t, err)

	assert.Equal(t, FallbackText, c.Advise(context.Background(), "enemy_Runebear_Limgrave", "p"))
	_, ok := c.Get("enemy_Runebear_Limgrave")
	assert.False(t, ok, "fallback text is not cached")
	assert.Zero(t, backend.puts)

	p := c.AdviseAsync("enemy_Runebear_Caelid", "p")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	text, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, FallbackText, text)
}
