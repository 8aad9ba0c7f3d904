package models

import "time"

// MaxDestinationLength is the width of the chat_name column.
const MaxDestinationLength = 100

// Registration binds a moderator to the public chat they moderate.
// One row per moderator; registering again replaces the row.
type Registration struct {
	ModeratorID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	DestinationName string    `gorm:"column:chat_name;type:varchar(100);not null;index"`
	LastUse         time.Time `gorm:"column:last_use;not null"`
	ErrorCount      int       `gorm:"column:errors;not null;default:0"`
}

// TableName keeps the table name used by existing deployments
func (Registration) TableName() string {
	return "chats"
}
