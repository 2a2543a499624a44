package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"terras/config"
	"terras/infras/otel"
	"terras/infras/s3"
	"terras/internal/domains/booking/model"
	"terras/internal/domains/booking/model/dto"
	"terras/internal/domains/booking/repository"
	"terras/internal/domains/booking/schedule"
	roomModel "terras/internal/domains/room/model"
	roomRepo "terras/internal/domains/room/repository"
	userModel "terras/internal/domains/user/model"
	userRepo "terras/internal/domains/user/repository"
	"terras/internal/events"
	"terras/shared"
	"terras/shared/base64"
	"terras/shared/cache"
	"terras/shared/constant"
	gDto "terras/shared/dto"
	"terras/shared/failure"
	"terras/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	attachmentDirectory       = "booking-attachments"
	defaultAttachmentMaxMB    = 5
	bytesPerMB                = 1 << 20
	fallbackAttachmentContent = "application/octet-stream"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, req dto.RejectBookingRequest, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepo.Room
	userRepo  userRepo.User
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	publisher events.Publisher
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
	publisher events.Publisher,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking user")

		return res, fmt.Errorf("failed to get booking user: %w", err)
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.WithKind(http.StatusNotFound, failure.KindRoomNotFound, "room not found") // nolint:wrapcheck
	}

	booking, err := req.ToModel(userID, user.DisplayName(), room)
	if err != nil {
		return res, err
	}

	attachment, err := s.validateAttachment(req)
	if err != nil {
		return res, err
	}

	if err = s.checkConflicts(ctx, booking); err != nil {
		return res, err
	}

	if len(attachment) > 0 {
		url, uploadErr := s.uploadAttachment(ctx, booking.ID, req, attachment)
		if uploadErr != nil {
			log.Error().Err(uploadErr).Msg("failed to upload booking attachment")

			return res, fmt.Errorf("failed to upload booking attachment: %w", uploadErr)
		}

		booking.AttachmentURL = url
	}

	if err = s.repo.InsertGuarded(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.discardAttachment(ctx, booking.AttachmentURL)

			return res, s.conflictFailure(ctx, booking)
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishEvent(ctx, events.TypeBookingCreated, booking, booking.UserName)
	s.invalidateListCaches(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending {
		return failure.WithKind(http.StatusConflict, failure.KindInvalidTransition, "only pending bookings can be modified") // nolint:wrapcheck
	}

	if booking.UserID != userID {
		return failure.Forbidden("only the booking owner can modify this booking") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, userID)

	if req.HasSchedule() {
		rescheduled, scheduleErr := s.applySchedule(booking, req)
		if scheduleErr != nil {
			return scheduleErr
		}

		if err = s.checkConflicts(ctx, rescheduled); err != nil {
			return err
		}

		updatedFields[model.FieldStartDate] = rescheduled.StartDate
		updatedFields[model.FieldEndDate] = rescheduled.EndDate
		updatedFields[model.FieldStartMinute] = rescheduled.StartMinute
		updatedFields[model.FieldEndMinute] = rescheduled.EndMinute
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != userID && userRole != constant.RoleAdmin {
		return failure.Forbidden("only the booking owner or an admin can delete this booking") // nolint:wrapcheck
	}

	if booking.Status != model.StatusPending {
		return failure.WithKind(http.StatusConflict, failure.KindInvalidTransition, "only pending bookings can be deleted") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.discardAttachment(ctx, booking.AttachmentURL)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userEmail, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusApproved) {
		return failure.WithKind(http.StatusConflict, failure.KindInvalidTransition, fmt.Sprintf("cannot approve a %s booking", booking.Status)) // nolint:wrapcheck
	}

	// Pre-check for a friendly conflict payload. The authoritative check runs
	// again inside the room lock.
	if err = s.checkConflicts(ctx, booking); err != nil {
		return err
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        model.StatusApproved,
		model.FieldApprovedBy:    userID,
		model.FieldApprovedAt:    now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.UpdateGuarded(ctx, booking, fields, filter); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return s.conflictFailure(ctx, booking)
		}

		log.Error().Err(err).Msg("failed to approve booking")

		return fmt.Errorf("failed to approve booking: %w", err)
	}

	s.publishEvent(ctx, events.TypeBookingApproved, booking, userEmail)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, req dto.RejectBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userEmail, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusRejected) {
		return failure.WithKind(http.StatusConflict, failure.KindInvalidTransition, fmt.Sprintf("cannot reject a %s booking", booking.Status)) // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:          model.StatusRejected,
		model.FieldRejectionReason: req.Reason,
		model.FieldRejectedBy:      userID,
		model.FieldRejectedAt:      now,
		constant.FieldModifiedAt:   now,
		constant.FieldModifiedBy:   userID,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reject booking")

		return fmt.Errorf("failed to reject booking: %w", err)
	}

	s.publishEvent(ctx, events.TypeBookingRejected, booking, userEmail)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != userID {
		return failure.Forbidden("only the booking owner can cancel this booking") // nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return failure.WithKind(http.StatusConflict, failure.KindInvalidTransition, fmt.Sprintf("cannot cancel a %s booking", booking.Status)) // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.publishEvent(ctx, events.TypeBookingCancelled, booking, booking.UserName)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// checkConflicts scans the room's approved bookings against the candidate
// slot. The candidate's own row is skipped so approval can re-check itself.
func (s *serviceImpl) checkConflicts(ctx context.Context, booking model.Booking) error {
	approved, err := s.repo.FindApproved(ctx, booking.RoomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load approved bookings")

		return fmt.Errorf("failed to load approved bookings: %w", err)
	}

	slots := make([]schedule.Slot, 0, len(approved))

	for _, existing := range approved {
		if existing.ID == booking.ID {
			continue
		}

		slots = append(slots, existing.Slot())
	}

	if conflict := schedule.FindConflict(booking.Slot(), slots); conflict != nil {
		return failure.ConflictWithDetails("room is already booked for the requested window", dto.ConflictDetailsFrom(conflict)) // nolint:wrapcheck
	}

	return nil
}

// conflictFailure rebuilds the conflict payload after the guarded write lost
// the race. The clashing approval landed after the pre-check, so scan again.
func (s *serviceImpl) conflictFailure(ctx context.Context, booking model.Booking) error {
	if err := s.checkConflicts(ctx, booking); err != nil {
		return err
	}

	return failure.ConflictWithDetails("room is already booked for the requested window", nil) // nolint:wrapcheck
}

func (s *serviceImpl) validateAttachment(req dto.CreateBookingRequest) ([]byte, error) {
	if req.AttachmentData == constant.Empty {
		return nil, nil
	}

	if req.AttachmentName == constant.Empty {
		return nil, failure.BadRequestFromString("attachment_name is required when attachment_data is set") // nolint:wrapcheck
	}

	extensions := s.cfg.Booking.AttachmentExtensions
	ext := strings.ToLower(filepath.Ext(req.AttachmentName))

	if !slices.Contains(extensions, ext) {
		msg := fmt.Sprintf("attachment type %q is not allowed, expected one of %s", ext, strings.Join(extensions, ", "))

		return nil, failure.WithKind(http.StatusBadRequest, failure.KindUnsupportedFileType, msg) // nolint:wrapcheck
	}

	decoded, err := req.DecodeAttachment()
	if err != nil {
		return nil, err
	}

	maxMB := s.cfg.Booking.AttachmentMaxMB
	if maxMB <= 0 {
		maxMB = defaultAttachmentMaxMB
	}

	if len(decoded) > maxMB*bytesPerMB {
		msg := fmt.Sprintf("attachment exceeds the %dMB limit", maxMB)

		return nil, failure.WithKind(http.StatusBadRequest, failure.KindAttachmentTooLarge, msg) // nolint:wrapcheck
	}

	return decoded, nil
}

func (s *serviceImpl) uploadAttachment(ctx context.Context, bookingID string, req dto.CreateBookingRequest, data []byte) (string, error) {
	contentType := base64.GetContentType(req.AttachmentData)
	if contentType == constant.Empty {
		contentType = fallbackAttachmentContent
	}

	objectName := bookingID + strings.ToLower(filepath.Ext(req.AttachmentName))

	return s.s3.UploadFileBytes(ctx, constant.Empty, attachmentDirectory, objectName, contentType, data) //nolint:wrapcheck
}

// discardAttachment removes an uploaded object after the booking write failed
// or the booking was deleted. Best effort only.
func (s *serviceImpl) discardAttachment(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		bucket := s.cfg.External.S3.BucketName
		objectName := s.s3.GetObjectNameFromURL(bucket, url)

		if objectName == constant.Empty {
			return
		}

		if err := s.s3.DeleteFile(c, bucket, constant.Empty, objectName); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to discard booking attachment")
		}
	}()
}

func (s *serviceImpl) applySchedule(booking model.Booking, req dto.UpdateBookingRequest) (model.Booking, error) {
	if req.StartDate != constant.Empty {
		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return booking, failure.BadRequestFromString("invalid start_date, expected YYYY-MM-DD") // nolint:wrapcheck
		}

		booking.StartDate = schedule.DateOnly(startDate)
	}

	if req.EndDate != constant.Empty {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return booking, failure.BadRequestFromString("invalid end_date, expected YYYY-MM-DD") // nolint:wrapcheck
		}

		booking.EndDate = schedule.DateOnly(endDate)
	}

	if booking.EndDate.Before(booking.StartDate) {
		return booking, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	if req.StartTime != constant.Empty {
		startMinute, err := schedule.ClockMinutes(req.StartTime)
		if err != nil {
			return booking, err
		}

		booking.StartMinute = startMinute
	}

	if req.EndTime != constant.Empty {
		endMinute, err := schedule.ClockMinutes(req.EndTime)
		if err != nil {
			return booking, err
		}

		booking.EndMinute = endMinute
	}

	if err := schedule.ValidateTimeRange(booking.StartMinute, booking.EndMinute); err != nil {
		return booking, err
	}

	return booking, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking, actorName string) {
	actorID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	actorRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	event := events.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		RoomID:       booking.RoomID,
		RoomName:     booking.RoomName,
		ActorID:      actorID,
		ActorName:    actorName,
		ActorRole:    actorRole,
		ActivityName: booking.ActivityName,
		Details: map[string]string{
			"start_date": booking.StartDate.Format("2006-01-02"),
			"end_date":   booking.EndDate.Format("2006-01-02"),
			"start_time": schedule.FormatClock(booking.StartMinute),
			"end_time":   schedule.FormatClock(booking.EndMinute),
		},
		OccurredAt: timezone.Now(),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.PublishBookingEvent(c, event); err != nil {
			log.Error().Err(err).Str("type", eventType).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
