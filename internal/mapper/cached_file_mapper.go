package mapper

import (
	"time"

	"course-material-bot/internal/entity"
	"course-material-bot/internal/model"
)

type CachedFileMapper struct{}

func NewCachedFileMapper() *CachedFileMapper {
	return &CachedFileMapper{}
}

func (m *CachedFileMapper) ToEntity(c *model.CachedFile) *entity.CachedFile {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.CachedFile{
		Id: c.Id,
		Key: entity.CacheKey{
			Year:    c.Year,
			Group:   c.Group,
			Subject: c.Subject,
			Kind:    entity.Kind(c.Kind),
			Number:  c.Number,
		},
		Handle:    c.Handle,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *CachedFileMapper) ToModel(c *entity.CachedFile) *model.CachedFile {
	if c == nil {
		return nil
	}

	return &model.CachedFile{
		Id:        c.Id,
		Year:      c.Key.Year,
		Group:     c.Key.Group,
		Subject:   c.Key.Subject,
		Kind:      string(c.Key.Kind),
		Number:    c.Key.Number,
		Handle:    c.Handle,
		CreatedAt: c.CreatedAt,
	}
}
