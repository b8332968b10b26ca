package model

import (
	"time"
)

type CachedFile struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	Year      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cache_key"`
	Group     string    `gorm:"column:branch;type:varchar(64);not null;uniqueIndex:idx_cache_key"`
	Subject   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_cache_key"`
	Kind      string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_cache_key"`
	Number    int       `gorm:"not null;uniqueIndex:idx_cache_key"`
	Handle    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CachedFile) TableName() string {
	return "cached_files"
}
