package dto

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"terras/internal/domains/room/model"
	"terras/shared"
	gDto "terras/shared/dto"
	gModel "terras/shared/model"
	"terras/shared/timezone"
)

type CreateRoomRequest struct {
	Name         string                `json:"name"          validate:"required,max=100"`
	BuildingName string                `json:"building_name" validate:"omitempty,max=100"`
	Location     string                `json:"location"      validate:"omitempty,max=100"`
	Capacity     int                   `json:"capacity"      validate:"omitempty,min=0"`
	Facilities   []string              `json:"facilities"    validate:"omitempty,dive,max=100"`
	Image        *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile    multipart.File        `json:"-"`
	Active       *bool                 `json:"active"        validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:           uuid.NewString(),
		Name:         c.Name,
		BuildingName: c.BuildingName,
		Location:     c.Location,
		Capacity:     c.Capacity,
		Facilities:   pq.StringArray(c.Facilities),
		Image:        imageURL,
		Active:       active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name         string                `db:"name"          json:"name"          validate:"omitempty,max=100"`
	BuildingName string                `db:"building_name" json:"building_name" validate:"omitempty,max=100"`
	Location     string                `db:"location"      json:"location"      validate:"omitempty,max=100"`
	Capacity     *int                  `db:"capacity"      json:"capacity"      validate:"omitempty,min=0"`
	Facilities   pq.StringArray        `db:"facilities"    json:"facilities"    validate:"omitempty,dive,max=100"`
	Image        *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile    multipart.File        `json:"-"`
	Active       *bool                 `db:"active"        json:"active"        validate:"omitempty"`
}

type RoomResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BuildingName string   `json:"building_name"`
	Location     string   `json:"location"`
	Capacity     int      `json:"capacity"`
	Facilities   []string `json:"facilities"`
	Image        string   `json:"image"`
	Active       bool     `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.BuildingName = model.BuildingName
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Facilities = model.Facilities
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
