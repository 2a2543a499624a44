package activity

import (
	"net/http"
	"terras/infras/otel"
	"terras/internal/domains/activity/model"
	"terras/internal/domains/activity/service"
	"terras/shared/constant"
	gDto "terras/shared/dto"
	"terras/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Activity
	otel    otel.Otel
}

func New(service service.Activity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/activities", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetActivities)
	})
}

// GetActivities retrieves the activity feed.
// @Summary Get activity logs
// @Description Retrieve booking activity logs with optional filtering and pagination. Admin only.
// @Tags Activity
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param actor_role query string false "Filter by actor role (admin, user)"
// @Param activity_type query string false "Filter by activity type"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse] "List of activities"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/activities [get]
// @Security BearerAuth
func (handler *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if actorRole := r.URL.Query().Get(model.FieldActorRole); actorRole != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActorRole,
			Operator: gDto.FilterOperatorEq,
			Value:    actorRole,
			Table:    model.TableName,
		})
	}

	if activityType := r.URL.Query().Get(model.FieldActivityType); activityType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActivityType,
			Operator: gDto.FilterOperatorEq,
			Value:    activityType,
			Table:    model.TableName,
		})
	}

	activities, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activities")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Activities retrieved successfully")

	response.WithJSON(w, http.StatusOK, activities)
}
