package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"course-material-bot/internal/entity"
	"course-material-bot/internal/model"
	"course-material-bot/internal/repository/contract"
	"course-material-bot/internal/repository/implementation"
	"course-material-bot/internal/repository/memory"
	"course-material-bot/pkg/database"
	"course-material-bot/pkg/drive"
	"course-material-bot/pkg/gateway"
	"course-material-bot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeRemoteStore serves a static Drive layout and counts the expensive calls.
type fakeRemoteStore struct {
	folders  map[string]map[string]string // parentID -> name -> id
	children map[string][]string          // parentID -> child folder names
	files    map[string][]drive.RemoteFile
	contents map[string][]byte

	findCalls     int
	listFileCalls int
	downloadCalls int
	downloadErr   error
}

func (f *fakeRemoteStore) FindChildFolder(_ context.Context, parentID, name string) (string, error) {
	f.findCalls++
	return f.folders[parentID][name], nil
}

func (f *fakeRemoteStore) ListChildFolders(_ context.Context, parentID string) ([]string, error) {
	return f.children[parentID], nil
}

func (f *fakeRemoteStore) ListFiles(_ context.Context, parentID string) ([]drive.RemoteFile, error) {
	f.listFileCalls++
	return f.files[parentID], nil
}

func (f *fakeRemoteStore) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	f.downloadCalls++
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.contents[fileID], nil
}

// fakeGateway hands out sequential handles and can reject cached ones.
type fakeGateway struct {
	staleHandles map[string]bool
	failDeliver  bool

	nextHandle  int
	delivered   []string // file names uploaded fresh
	redelivered []string // handles resent from cache
}

func (g *fakeGateway) DeliverDocument(_ context.Context, _ int64, fileName string, _ []byte) (string, error) {
	if g.failDeliver {
		return "", errors.New("telegram unavailable")
	}
	g.nextHandle++
	g.delivered = append(g.delivered, fileName)
	return fmt.Sprintf("tg-%d", g.nextHandle), nil
}

func (g *fakeGateway) RedeliverByHandle(_ context.Context, _ int64, handle string) error {
	if g.staleHandles[handle] {
		return gateway.ErrStaleHandle
	}
	g.redelivered = append(g.redelivered, handle)
	return nil
}

// newCourseStore builds the canonical test layout:
// root/2nd_Year/CSE/DBMS/{assignments,Notes} with numbered files.
func newCourseStore() *fakeRemoteStore {
	return &fakeRemoteStore{
		folders: map[string]map[string]string{
			"root":  {"2nd_Year": "year2", "1st_Year": "year1"},
			"year2": {"CSE": "cse"},
			"cse":   {"DBMS": "dbms"},
			"dbms":  {"assignments": "asg", "Notes": "nts"},
		},
		children: map[string][]string{
			"year1": {"C", "A", "B"},
			"year2": {"CSE"},
			"cse":   {"DBMS"},
		},
		files: map[string][]drive.RemoteFile{
			"asg": {
				{ID: "f1", Name: "assignment_1.pdf"},
				{ID: "f10", Name: "assignment_10.pdf"},
				{ID: "f12", Name: "assignment_12.pdf"},
				{ID: "f2", Name: "Assignment_2_final.pdf"},
			},
			"nts": {
				{ID: "n3", Name: "Unit_3.pdf"},
				{ID: "n1", Name: "note_1.pdf"},
			},
		},
		contents: map[string][]byte{
			"f1": []byte("a1"), "f10": []byte("a10"), "f12": []byte("a12"),
			"f2": []byte("a2"), "n3": []byte("u3"), "n1": []byte("n1"),
		},
	}
}

type locatorFixture struct {
	locator   ILocatorService
	cacheRepo contract.FileCacheRepository
	sessions  *memory.SessionRepository
	remote    *fakeRemoteStore
	gw        *fakeGateway
}

func newLocatorFixture(t *testing.T, remote *fakeRemoteStore, gw *fakeGateway) *locatorFixture {
	t.Helper()

	db, err := database.NewGormDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CachedFile{}))

	cacheRepo := implementation.NewFileCacheRepository(db)
	sessions := memory.NewSessionRepository()
	resolver := drive.NewResolver(remote, "root", nopLogger{})

	locator := NewLocatorService(sessions, cacheRepo, resolver, remote, gw, nil, nopLogger{})
	return &locatorFixture{
		locator:   locator,
		cacheRepo: cacheRepo,
		sessions:  sessions,
		remote:    remote,
		gw:        gw,
	}
}

func (f *locatorFixture) configureUser(userID int64, year string) {
	f.sessions.Save(&store.Session{
		UserID: userID,
		ChatID: userID,
		State:  store.StateReady,
		Year:   year,
		Name:   "Test",
	})
}

func TestGetOrFetchRejectsUnconfiguredUser(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})

	_, err := f.locator.GetOrFetch(context.Background(), 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, f.remote.findCalls, "no remote call for unconfigured users")
}

func TestGetOrFetchDownloadsThenHitsCache(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	// Lowercase input exercises key normalization.
	res, err := f.locator.GetOrFetch(ctx, 1, 1, "2nd_Year", "cse", "dbms", entity.KindAssignment, 2)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, "Assignment_2_final.pdf", res.FileName)
	assert.Equal(t, 1, f.remote.listFileCalls)
	assert.Equal(t, 1, f.remote.downloadCalls)

	key := entity.NewCacheKey("2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	cached, err := f.cacheRepo.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, res.Handle, cached.Handle)

	// Second request is served from the cache without touching Drive again.
	res2, err := f.locator.GetOrFetch(ctx, 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.NoError(t, err)
	assert.True(t, res2.CacheHit)
	assert.Equal(t, 1, f.remote.listFileCalls, "cache hit must not list files")
	assert.Equal(t, 1, f.remote.downloadCalls, "cache hit must not re-download")
	assert.Equal(t, []string{cached.Handle}, f.gw.redelivered)
}

func TestGetOrFetchNotFoundLeavesCacheUnchanged(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	_, err := f.locator.GetOrFetch(ctx, 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 5)
	require.ErrorIs(t, err, ErrNotFound)

	count, err := f.cacheRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetOrFetchNotFoundOnMissingFolder(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})
	f.configureUser(1, "2nd_Year")

	_, err := f.locator.GetOrFetch(context.Background(), 1, 1, "2nd_Year", "ECE", "DBMS", entity.KindAssignment, 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.remote.listFileCalls)
}

func TestGetOrFetchRecoversFromStaleHandle(t *testing.T) {
	gw := &fakeGateway{staleHandles: map[string]bool{"stale-handle": true}}
	f := newLocatorFixture(t, newCourseStore(), gw)
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	key := entity.NewCacheKey("2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.NoError(t, f.cacheRepo.Put(ctx, key, "stale-handle"))

	res, err := f.locator.GetOrFetch(ctx, 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 1, f.remote.listFileCalls, "exactly one re-resolution")
	assert.Equal(t, 1, f.remote.downloadCalls, "exactly one re-download")

	cached, err := f.cacheRepo.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, res.Handle, cached.Handle, "stale entry overwritten with the new handle")
	assert.NotEqual(t, "stale-handle", cached.Handle)
}

func TestGetOrFetchTransientOnDownloadFailure(t *testing.T) {
	remote := newCourseStore()
	remote.downloadErr = errors.New("connection reset")
	f := newLocatorFixture(t, remote, &fakeGateway{})
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	_, err := f.locator.GetOrFetch(ctx, 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.ErrorIs(t, err, ErrTransient)

	count, err := f.cacheRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetOrFetchTransientOnDeliverFailure(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{failDeliver: true})
	f.configureUser(1, "2nd_Year")

	_, err := f.locator.GetOrFetch(context.Background(), 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 2)
	require.ErrorIs(t, err, ErrTransient)
}

func TestGetOrFetchDigitAdjacency(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})
	f.configureUser(1, "2nd_Year")

	res, err := f.locator.GetOrFetch(context.Background(), 1, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment, 1)
	require.NoError(t, err)
	assert.Equal(t, "assignment_1.pdf", res.FileName, "must not match assignment_10 or assignment_12")
}

func TestListNumbers(t *testing.T) {
	f := newLocatorFixture(t, newCourseStore(), &fakeGateway{})
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	nums, err := f.locator.ListNumbers(ctx, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 10, 12}, nums)

	nums, err = f.locator.ListNumbers(ctx, 1, "2nd_Year", "CSE", "DBMS", entity.KindNote)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, nums)
}

func TestListNumbersMissingFolderVsEmpty(t *testing.T) {
	remote := newCourseStore()
	remote.files["asg"] = []drive.RemoteFile{{ID: "x", Name: "syllabus.pdf"}}
	f := newLocatorFixture(t, remote, &fakeGateway{})
	f.configureUser(1, "2nd_Year")
	ctx := context.Background()

	// Folder exists but nothing matches the numbering pattern: empty, not an error.
	nums, err := f.locator.ListNumbers(ctx, 1, "2nd_Year", "CSE", "DBMS", entity.KindAssignment)
	require.NoError(t, err)
	assert.Empty(t, nums)

	// The kind subfolder itself is missing: NotFound.
	_, err = f.locator.ListNumbers(ctx, 1, "2nd_Year", "CSE", "MATHS", entity.KindAssignment)
	require.ErrorIs(t, err, ErrNotFound)
}
