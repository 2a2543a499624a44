package model

import "terras/shared/model"

const (
	TableName  = "activity_logs"
	EntityName = "activity"

	FieldID           = "id"
	FieldActivityType = "activity_type"
	FieldActorID      = "actor_id"
	FieldActorName    = "actor_name"
	FieldActorRole    = "actor_role"
	FieldAction       = "action"
	FieldTargetType   = "target_type"
	FieldTargetName   = "target_name"
	FieldTargetID     = "target_id"
	FieldDetails      = "details"
)

// ActivityLog is an audit row persisted by the booking event consumer.
type ActivityLog struct {
	ID           string `db:"id"`
	ActivityType string `db:"activity_type"`
	ActorID      string `db:"actor_id"`
	ActorName    string `db:"actor_name"`
	ActorRole    string `db:"actor_role"`
	Action       string `db:"action"`
	TargetType   string `db:"target_type"`
	TargetName   string `db:"target_name"`
	TargetID     string `db:"target_id"`
	Details      string `db:"details"`
	model.Metadata
}
