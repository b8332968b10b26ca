package memory

import (
	"strconv"

	"course-material-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions live for the whole process; go-cache still gives us safe
	// concurrent access from the update dispatcher goroutines.
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(keyFor(session.UserID), session, cache.NoExpiration)
}

func (r *SessionRepository) Get(userID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(keyFor(userID)); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID int64) {
	r.cache.Delete(keyFor(userID))
}

// IsConfigured is the gate for all document/listing operations: it holds
// only after the user completed the /start setup flow.
func (r *SessionRepository) IsConfigured(userID int64) bool {
	s, found := r.Get(userID)
	return found && s.Configured()
}

func keyFor(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
