package database

import "askme/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.QuestionVote{},
		&models.AnswerVote{},
	}
}
