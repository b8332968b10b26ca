package service

import (
	"context"
	"sort"
	"strings"

	"course-material-bot/internal/repository/memory"
	"course-material-bot/pkg/drive"
)

type ICatalogService interface {
	ListGroups(ctx context.Context, userID int64, year string) ([]string, error)
	ListSubjects(ctx context.Context, userID int64, year, group string) ([]string, error)
}

type catalogService struct {
	sessionRepo *memory.SessionRepository
	resolver    *drive.Resolver
}

func NewCatalogService(sessionRepo *memory.SessionRepository, resolver *drive.Resolver) ICatalogService {
	return &catalogService{
		sessionRepo: sessionRepo,
		resolver:    resolver,
	}
}

// ListGroups returns the group (branch) folder names under a year, sorted.
func (s *catalogService) ListGroups(ctx context.Context, userID int64, year string) ([]string, error) {
	if !s.sessionRepo.IsConfigured(userID) {
		return nil, ErrNotConfigured
	}

	folderID, ok := s.resolver.ResolveFolder(ctx, []string{year})
	if !ok {
		return nil, ErrNotFound
	}

	groups := s.resolver.ListChildFolders(ctx, folderID)
	sort.Strings(groups)
	return groups, nil
}

// ListSubjects returns the subject folder names under a group, sorted.
func (s *catalogService) ListSubjects(ctx context.Context, userID int64, year, group string) ([]string, error) {
	if !s.sessionRepo.IsConfigured(userID) {
		return nil, ErrNotConfigured
	}

	folderID, ok := s.resolver.ResolveFolder(ctx, []string{year, strings.ToUpper(group)})
	if !ok {
		return nil, ErrNotFound
	}

	subjects := s.resolver.ListChildFolders(ctx, folderID)
	sort.Strings(subjects)
	return subjects, nil
}
