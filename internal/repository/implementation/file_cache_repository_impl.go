package implementation

import (
	"context"
	"errors"

	"course-material-bot/internal/entity"
	"course-material-bot/internal/mapper"
	"course-material-bot/internal/model"
	"course-material-bot/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FileCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CachedFileMapper
}

func NewFileCacheRepository(db *gorm.DB) contract.FileCacheRepository {
	return &FileCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewCachedFileMapper(),
	}
}

func (r *FileCacheRepositoryImpl) Get(ctx context.Context, key entity.CacheKey) (*entity.CachedFile, error) {
	var m model.CachedFile
	err := r.db.WithContext(ctx).
		Where("year = ? AND branch = ? AND subject = ? AND kind = ? AND number = ?",
			key.Year, key.Group, key.Subject, string(key.Kind), key.Number).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FileCacheRepositoryImpl) Put(ctx context.Context, key entity.CacheKey, handle string) error {
	m := r.mapper.ToModel(&entity.CachedFile{Key: key, Handle: handle})
	// Upsert on the composite key keeps at most one handle per document.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "year"}, {Name: "branch"}, {Name: "subject"}, {Name: "kind"}, {Name: "number"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"handle", "updated_at"}),
		}).
		Create(m).Error
}

func (r *FileCacheRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.CachedFile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
