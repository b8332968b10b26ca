package service

import (
	"context"
	"encoding/json"
	"fmt"

	"course-material-bot/internal/dto"
	"course-material-bot/internal/entity"
	"course-material-bot/internal/pkg/logger"
	"course-material-bot/internal/repository/contract"
	"course-material-bot/internal/repository/memory"
	"course-material-bot/pkg/drive"
	"course-material-bot/pkg/gateway"
	"course-material-bot/pkg/match"
)

type ILocatorService interface {
	GetOrFetch(ctx context.Context, userID, chatID int64, year, group, subject string, kind entity.Kind, number int) (*dto.DeliveredFile, error)
	ListNumbers(ctx context.Context, userID int64, year, group, subject string, kind entity.Kind) ([]int, error)
}

type locatorService struct {
	sessionRepo      *memory.SessionRepository
	cacheRepo        contract.FileCacheRepository
	resolver         *drive.Resolver
	store            drive.RemoteStore
	gateway          gateway.Gateway
	publisherService IPublisherService
	log              logger.ILogger
}

func NewLocatorService(
	sessionRepo *memory.SessionRepository,
	cacheRepo contract.FileCacheRepository,
	resolver *drive.Resolver,
	store drive.RemoteStore,
	gw gateway.Gateway,
	publisherService IPublisherService,
	log logger.ILogger,
) ILocatorService {
	return &locatorService{
		sessionRepo:      sessionRepo,
		cacheRepo:        cacheRepo,
		resolver:         resolver,
		store:            store,
		gateway:          gw,
		publisherService: publisherService,
		log:              log,
	}
}

// GetOrFetch delivers the requested document to the chat, cache first.
// A cached Telegram handle is resent directly; when the transport rejects
// it the document is re-resolved from Drive and the entry overwritten.
func (s *locatorService) GetOrFetch(ctx context.Context, userID, chatID int64, year, group, subject string, kind entity.Kind, number int) (*dto.DeliveredFile, error) {
	if !s.sessionRepo.IsConfigured(userID) {
		return nil, ErrNotConfigured
	}

	key := entity.NewCacheKey(year, group, subject, kind, number)

	// 1. Fast path: resend by cached handle.
	cached, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		// A broken cache read must not block the fetch; treat as a miss.
		s.log.Warn("locator", "cache lookup failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
	if cached != nil {
		if err := s.gateway.RedeliverByHandle(ctx, chatID, cached.Handle); err == nil {
			s.publishDelivered(ctx, key, true)
			return &dto.DeliveredFile{Handle: cached.Handle, CacheHit: true}, nil
		}
		// Stale handle: keep the entry, fall through to a full resolution.
		// The successful re-fetch below overwrites it.
		s.log.Warn("locator", "cached handle rejected, re-resolving", map[string]interface{}{
			"key": key, "handle": cached.Handle,
		})
	}

	// 2. Resolve the kind subfolder of the subject.
	folderID, ok := s.resolver.ResolveFolder(ctx, []string{key.Year, key.Group, key.Subject, kind.SubfolderName()})
	if !ok {
		return nil, ErrNotFound
	}

	// 3. Find the file carrying the requested number.
	files, err := s.store.ListFiles(ctx, folderID)
	if err != nil {
		s.log.Warn("locator", "file listing failed", map[string]interface{}{
			"folder_id": folderID, "error": err.Error(),
		})
		return nil, ErrNotFound
	}

	var target *drive.RemoteFile
	for i := range files {
		if match.HasNumber(files[i].Name, kind, number) {
			target = &files[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}

	// 4–5. Download and deliver.
	data, err := s.store.DownloadFile(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: download %q: %v", ErrTransient, target.Name, err)
	}

	handle, err := s.gateway.DeliverDocument(ctx, chatID, target.Name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: deliver %q: %v", ErrTransient, target.Name, err)
	}

	// 6. Overwrite the cache entry; the document reached the user already,
	// so a failed write only costs the next request a re-download.
	if err := s.cacheRepo.Put(ctx, key, handle); err != nil {
		s.log.Error("locator", "cache write failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}

	s.publishDelivered(ctx, key, false)
	return &dto.DeliveredFile{FileName: target.Name, Handle: handle, CacheHit: false}, nil
}

// ListNumbers returns the distinct document numbers available for a
// subject and kind, ascending. An empty slice means "no items"; ErrNotFound
// means the kind subfolder itself is missing.
func (s *locatorService) ListNumbers(ctx context.Context, userID int64, year, group, subject string, kind entity.Kind) ([]int, error) {
	if !s.sessionRepo.IsConfigured(userID) {
		return nil, ErrNotConfigured
	}

	key := entity.NewCacheKey(year, group, subject, kind, 1)
	folderID, ok := s.resolver.ResolveFolder(ctx, []string{key.Year, key.Group, key.Subject, kind.SubfolderName()})
	if !ok {
		return nil, ErrNotFound
	}

	files, err := s.store.ListFiles(ctx, folderID)
	if err != nil {
		s.log.Warn("locator", "file listing failed", map[string]interface{}{
			"folder_id": folderID, "error": err.Error(),
		})
		return []int{}, nil
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return match.DistinctSorted(names, kind), nil
}

func (s *locatorService) publishDelivered(ctx context.Context, key entity.CacheKey, cacheHit bool) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.DocumentDeliveredMessage{
		Year:     key.Year,
		Group:    key.Group,
		Subject:  key.Subject,
		Kind:     key.Kind,
		Number:   key.Number,
		CacheHit: cacheHit,
	})
	if err != nil {
		return
	}
	// Usage tracking is auxiliary; a publish failure never fails the fetch.
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("locator", "failed to publish delivery event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
