package model

import (
	"github.com/lib/pq"

	"terras/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldName         = "name"
	FieldBuildingName = "building_name"
	FieldLocation     = "location"
	FieldCapacity     = "capacity"
	FieldFacilities   = "facilities"
	FieldImage        = "image"
	FieldActive       = "active"
)

type Room struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	BuildingName string         `db:"building_name"`
	Location     string         `db:"location"`
	Capacity     int            `db:"capacity"`
	Facilities   pq.StringArray `db:"facilities"`
	Image        string         `db:"image"`
	Active       bool           `db:"active"`
	model.Metadata
}
