package service

import (
	"context"
	"testing"

	"course-material-bot/internal/repository/memory"
	"course-material-bot/pkg/drive"
	"course-material-bot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(remote *fakeRemoteStore) (ICatalogService, *memory.SessionRepository) {
	sessions := memory.NewSessionRepository()
	resolver := drive.NewResolver(remote, "root", nopLogger{})
	return NewCatalogService(sessions, resolver), sessions
}

func TestListGroupsSorted(t *testing.T) {
	catalog, sessions := newCatalogFixture(newCourseStore())
	sessions.Save(&store.Session{UserID: 1, State: store.StateReady, Year: "1st_Year"})

	groups, err := catalog.ListGroups(context.Background(), 1, "1st_Year")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, groups)
}

func TestListGroupsRequiresSession(t *testing.T) {
	catalog, _ := newCatalogFixture(newCourseStore())

	_, err := catalog.ListGroups(context.Background(), 1, "1st_Year")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestListGroupsUnknownYear(t *testing.T) {
	catalog, sessions := newCatalogFixture(newCourseStore())
	sessions.Save(&store.Session{UserID: 1, State: store.StateReady, Year: "5th_Year"})

	_, err := catalog.ListGroups(context.Background(), 1, "5th_Year")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSubjectsNormalizesGroup(t *testing.T) {
	catalog, sessions := newCatalogFixture(newCourseStore())
	sessions.Save(&store.Session{UserID: 1, State: store.StateReady, Year: "2nd_Year"})

	subjects, err := catalog.ListSubjects(context.Background(), 1, "2nd_Year", "cse")
	require.NoError(t, err)
	assert.Equal(t, []string{"DBMS"}, subjects)
}

func TestListSubjectsUnknownGroup(t *testing.T) {
	catalog, sessions := newCatalogFixture(newCourseStore())
	sessions.Save(&store.Session{UserID: 1, State: store.StateReady, Year: "2nd_Year"})

	_, err := catalog.ListSubjects(context.Background(), 1, "2nd_Year", "ECE")
	require.ErrorIs(t, err, ErrNotFound)
}
