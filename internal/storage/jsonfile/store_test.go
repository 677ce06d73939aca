package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	repo "github.com/astexai/waitlist-backend/internal/domain/repository"
	"github.com/astexai/waitlist-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *EntryStore {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "whitelist_entries.json"), logger.Nop())
}

func sampleEntry(name string) *model.WhitelistEntry {
	recommend := model.RecommendYes
	return &model.WhitelistEntry{
		Name:      name,
		Phone:     "+55 11 99999-0000",
		Email:     name + "@example.com",
		Company:   "Acme",
		Niches:    []string{"Saúde", "Varejo"},
		Recommend: &recommend,
		CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestEntryStore_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	records, err = s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEntryStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	records, err := s.Load(context.Background())
	require.NoError(t, err, "load never fails on malformed data")
	assert.Empty(t, records)

	_, err = s.ReadAll(context.Background())
	assert.ErrorIs(t, err, repo.ErrStorage)

	err = s.Append(context.Background(), sampleEntry("ana"))
	assert.ErrorIs(t, err, repo.ErrStorage)

	data, readErr := os.ReadFile(s.Path())
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data), "malformed file must not be overwritten")
}

func TestEntryStore_AppendAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleEntry("ana")))
	require.NoError(t, s.Append(ctx, sampleEntry("bruno")))

	records, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "ana", first.String("name"))
	assert.Equal(t, "ana@example.com", first.String("email"))
	assert.Equal(t, []string{"Saúde", "Varejo"}, first.Strings("niches"))
	assert.Equal(t, "Sim", first.String("recommend"))
	assert.Nil(t, first["other_niche"])
	assert.Equal(t, "2024-05-01T12:30:00Z", first.String("created_at"))
	assert.Equal(t, "bruno", records[1].String("name"))
}

func TestEntryStore_FileFormat(t *testing.T) {
	s := newTestStore(t)
	entry := sampleEntry("ana")
	entry.Company = "Tom & Jerry <Ltda>"

	require.NoError(t, s.Append(context.Background(), entry))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[\n  {\n    \"name\": \"ana\",")
	assert.Contains(t, content, "\"Saúde\"", "non-ASCII text is written as-is")
	assert.Contains(t, content, "Tom & Jerry <Ltda>", "HTML characters are not escaped")
}

func TestEntryStore_AppendKeepsUnknownFields(t *testing.T) {
	s := newTestStore(t)
	legacy := `[{"name": "old", "niches": ["A"], "source": "landing-v1"}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o644))

	require.NoError(t, s.Append(context.Background(), sampleEntry("new")))

	records, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "landing-v1", records[0].String("source"))
}

func TestEntryStore_EmptyFileIsEmptyStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("  \n"), 0o644))

	require.NoError(t, s.Append(context.Background(), sampleEntry("ana")))

	records, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEntryStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "entries.json")
	s := New(path, logger.Nop())

	require.NoError(t, s.Append(context.Background(), sampleEntry("ana")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestEntryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Append(ctx, sampleEntry(fmt.Sprintf("user%d", i)))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

func TestEntryStore_AppendHonoursCancelledContext(t *testing.T) {
	s := newTestStore(t)

	// Hold the cross-process lock so Append has to wait on the context.
	other := New(s.Path(), logger.Nop())
	require.NoError(t, other.lock.Lock())
	defer func() { _ = other.lock.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Append(ctx, sampleEntry("ana"))
	assert.ErrorIs(t, err, repo.ErrStorage)
}
