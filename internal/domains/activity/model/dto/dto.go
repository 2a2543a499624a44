package dto

import (
	"encoding/json"

	"terras/internal/domains/activity/model"
	"terras/shared"
	gDto "terras/shared/dto"
)

type ActivityResponse struct {
	ID           string            `json:"id"`
	ActivityType string            `json:"activity_type"`
	ActorID      string            `json:"actor_id"`
	ActorName    string            `json:"actor_name"`
	ActorRole    string            `json:"actor_role"`
	Action       string            `json:"action"`
	TargetType   string            `json:"target_type"`
	TargetName   string            `json:"target_name"`
	TargetID     string            `json:"target_id"`
	Details      map[string]string `json:"details,omitempty"`
	gDto.Metadata
}

func (r *ActivityResponse) FromModel(activity model.ActivityLog) {
	r.ID = activity.ID
	r.ActivityType = activity.ActivityType
	r.ActorID = activity.ActorID
	r.ActorName = activity.ActorName
	r.ActorRole = activity.ActorRole
	r.Action = activity.Action
	r.TargetType = activity.TargetType
	r.TargetName = activity.TargetName
	r.TargetID = activity.TargetID

	if activity.Details != "" {
		// Details is stored as JSON text; a malformed row just renders empty.
		_ = json.Unmarshal([]byte(activity.Details), &r.Details)
	}

	r.Metadata.FromModel(activity.Metadata)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.ActivityLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, mod := range models {
		r.Activities[i].FromModel(mod)
	}
}
