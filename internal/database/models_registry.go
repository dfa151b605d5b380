package database

import "vidtube/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Subscription{},
		&models.Video{},
		&models.Comment{},
		&models.Tweet{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Like{},
	}
}
