package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// GoogleStore implements RemoteStore against the Drive v3 API using a
// service account. It is constructed once at startup and injected into
// the resolver and locator.
type GoogleStore struct {
	service *drivev3.Service
	timeout time.Duration
}

func NewGoogleStore(ctx context.Context, serviceAccountJSON string, timeout time.Duration) (*GoogleStore, error) {
	jwtCfg, err := google.JWTConfigFromJSON([]byte(serviceAccountJSON), drivev3.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	service, err := drivev3.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("initializing drive service: %w", err)
	}

	return &GoogleStore{
		service: service,
		timeout: timeout,
	}, nil
}

func (s *GoogleStore) FindChildFolder(ctx context.Context, parentID, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false and mimeType = '%s'",
		escapeQueryTerm(name), escapeQueryTerm(parentID), folderMimeType)
	res, err := s.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		OrderBy("name").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(res.Files) == 0 {
		return "", nil
	}
	// Duplicate names are possible in Drive; name ordering above makes the
	// first pick deterministic.
	return res.Files[0].Id, nil
}

func (s *GoogleStore) ListChildFolders(ctx context.Context, parentID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("'%s' in parents and trashed = false and mimeType = '%s'",
		escapeQueryTerm(parentID), folderMimeType)
	res, err := s.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(name)").
		OrderBy("name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		names = append(names, f.Name)
	}
	return names, nil
}

func (s *GoogleStore) ListFiles(ctx context.Context, parentID string) ([]RemoteFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("'%s' in parents and trashed = false and mimeType != '%s'",
		escapeQueryTerm(parentID), folderMimeType)
	res, err := s.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		OrderBy("name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]RemoteFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, RemoteFile{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

func (s *GoogleStore) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// escapeQueryTerm escapes the single quotes that delimit Drive query terms.
func escapeQueryTerm(term string) string {
	return strings.ReplaceAll(term, `'`, `\'`)
}
