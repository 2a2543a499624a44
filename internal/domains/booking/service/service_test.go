package service_test

import (
	"bytes"
	"context"
	b64 "encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"terras/config"
	"terras/infras/otel/mocks"
	s3Mocks "terras/infras/s3/mocks"
	bookingMocks "terras/internal/domains/booking/mocks"
	"terras/internal/domains/booking/model"
	"terras/internal/domains/booking/model/dto"
	"terras/internal/domains/booking/repository"
	"terras/internal/domains/booking/service"
	roomMocks "terras/internal/domains/room/mocks"
	roomModel "terras/internal/domains/room/model"
	userMocks "terras/internal/domains/user/mocks"
	userModel "terras/internal/domains/user/model"
	eventMocks "terras/internal/events/mocks"
	cacheMocks "terras/shared/cache/mocks"
	"terras/shared/constant"
	"terras/shared/failure"
	gModel "terras/shared/model"
	"terras/shared/timezone"
)

// asyncSettle gives the fire-and-forget goroutines (event publish, cache
// invalidation) time to hit their mocks before the controller is finished.
const asyncSettle = 50 * time.Millisecond

type bookingMockSet struct {
	repo      *bookingMocks.MockBooking
	roomRepo  *roomMocks.MockRoom
	userRepo  *userMocks.MockUser
	cache     *cacheMocks.MockRedisCache
	s3        *s3Mocks.MockS3
	publisher *eventMocks.MockPublisher
}

func newBookingService(t *testing.T, cfg *config.Config) (service.Booking, bookingMockSet, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)

	set := bookingMockSet{
		repo:      bookingMocks.NewMockBooking(ctrl),
		roomRepo:  roomMocks.NewMockRoom(ctrl),
		userRepo:  userMocks.NewMockUser(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	svc := service.New(set.repo, set.roomRepo, set.userRepo, cfg, set.cache, mocks.NewOtel(), set.s3, set.publisher)

	return svc, set, ctrl
}

func bookingConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.AttachmentMaxMB = 1
	cfg.Booking.AttachmentExtensions = []string{".pdf", ".doc", ".docx"}

	return cfg
}

func userCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, userID+"@example.com")

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func approvedBooking(id, roomID string, date time.Time, startMinute, endMinute int) model.Booking {
	return model.Booking{
		ID:           id,
		RoomID:       roomID,
		RoomName:     "Aula Barat",
		UserID:       "other-user",
		StartDate:    date,
		EndDate:      date,
		StartMinute:  startMinute,
		EndMinute:    endMinute,
		ActivityName: "Standing meeting",
		Status:       model.StatusApproved,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	roomID := "room-1"
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	validUser := userModel.User{ID: "user-1", Email: "user-1@example.com", Active: true}
	validRoom := roomModel.Room{ID: roomID, Name: "Aula Barat", BuildingName: "Gedung A", Active: true}

	baseReq := dto.CreateBookingRequest{
		RoomID:       roomID,
		StartDate:    "2026-03-10",
		EndDate:      "2026-03-10",
		StartTime:    "09:00",
		EndTime:      "11:00",
		ActivityName: "Department briefing",
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
		wantKind  string
		settle    bool
	}{
		{
			name: "successful booking without attachment",
			req:  baseReq,
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), roomID).Return(nil, nil)
				set.repo.EXPECT().InsertGuarded(gomock.Any(), gomock.Any()).Return(nil)
				set.publisher.EXPECT().PublishBookingEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "room not found",
			req:  baseReq,
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindRoomNotFound,
		},
		{
			name: "booking before opening time",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.StartTime = "04:30"

				return req
			}(),
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
			},
			wantErr:  true,
			wantKind: failure.KindInvalidTimeRange,
		},
		{
			name: "booking past closing time",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.EndTime = "22:30"

				return req
			}(),
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
			},
			wantErr:  true,
			wantKind: failure.KindInvalidTimeRange,
		},
		{
			name: "unsupported attachment extension",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.AttachmentName = "agenda.exe"
				req.AttachmentData = b64.StdEncoding.EncodeToString([]byte("payload"))

				return req
			}(),
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
			},
			wantErr:  true,
			wantKind: failure.KindUnsupportedFileType,
		},
		{
			name: "attachment above the size limit",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.AttachmentName = "agenda.pdf"
				req.AttachmentData = b64.StdEncoding.EncodeToString(bytes.Repeat([]byte("a"), 1<<20+1))

				return req
			}(),
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
			},
			wantErr:  true,
			wantKind: failure.KindAttachmentTooLarge,
		},
		{
			name: "overlapping approved booking",
			req:  baseReq,
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), roomID).
					Return([]model.Booking{approvedBooking("existing-1", roomID, day, 10*60, 12*60)}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindSchedulingConflict,
		},
		{
			name: "slot taken during guarded insert",
			req:  baseReq,
			setupMock: func(set bookingMockSet) {
				set.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				set.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validRoom, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), roomID).Return(nil, nil)
				set.repo.EXPECT().InsertGuarded(gomock.Any(), gomock.Any()).Return(repository.ErrSlotTaken)
				set.repo.EXPECT().FindApproved(gomock.Any(), roomID).
					Return([]model.Booking{approvedBooking("existing-2", roomID, day, 9*60, 10*60)}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindSchedulingConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set, ctrl := newBookingService(t, bookingConfig())
			defer ctrl.Finish()

			tt.setupMock(set)

			res, err := svc.Create(userCtx("user-1", constant.RoleUser), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, "09:00", res.StartTime)
				assert.Equal(t, "11:00", res.EndTime)
			}

			if tt.settle {
				time.Sleep(asyncSettle)
			}
		})
	}
}

func TestBookingService_Approve(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	pending := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)
	pending.Status = model.StatusPending

	tests := []struct {
		name      string
		setupMock func(set bookingMockSet)
		wantErr   bool
		wantKind  string
		settle    bool
	}{
		{
			name: "successful approval",
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").Return(nil, nil)
				set.repo.EXPECT().UpdateGuarded(gomock.Any(), pending, gomock.Any(), gomock.Any()).Return(nil)
				set.publisher.EXPECT().PublishBookingEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "cannot approve an already approved booking",
			setupMock: func(set bookingMockSet) {
				approved := pending
				approved.Status = model.StatusApproved

				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
			},
			wantErr:  true,
			wantKind: failure.KindInvalidTransition,
		},
		{
			name: "conflicting approval already exists",
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").
					Return([]model.Booking{approvedBooking("existing-1", "room-1", day, 10*60, 12*60)}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindSchedulingConflict,
		},
		{
			name: "slot taken during guarded update",
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").Return(nil, nil)
				set.repo.EXPECT().UpdateGuarded(gomock.Any(), pending, gomock.Any(), gomock.Any()).Return(repository.ErrSlotTaken)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").Return(nil, nil)
			},
			wantErr:  true,
			wantKind: failure.KindSchedulingConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set, ctrl := newBookingService(t, bookingConfig())
			defer ctrl.Finish()

			tt.setupMock(set)

			err := svc.Approve(userCtx("admin-1", constant.RoleAdmin), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}
			} else {
				assert.NoError(t, err)
			}

			if tt.settle {
				time.Sleep(asyncSettle)
			}
		})
	}
}

func TestBookingService_Reject(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	pending := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)
	pending.Status = model.StatusPending

	req := dto.RejectBookingRequest{Reason: "room reserved for maintenance"}

	t.Run("successful rejection", func(t *testing.T) {
		svc, set, ctrl := newBookingService(t, bookingConfig())
		defer ctrl.Finish()

		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		set.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
				assert.Equal(t, req.Reason, fields[model.FieldRejectionReason])

				return nil
			})
		set.publisher.EXPECT().PublishBookingEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Reject(userCtx("admin-1", constant.RoleAdmin), req, "booking-1")
		assert.NoError(t, err)

		time.Sleep(asyncSettle)
	})

	t.Run("cannot reject a cancelled booking", func(t *testing.T) {
		svc, set, ctrl := newBookingService(t, bookingConfig())
		defer ctrl.Finish()

		cancelled := pending
		cancelled.Status = model.StatusCancelled

		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.Reject(userCtx("admin-1", constant.RoleAdmin), req, "booking-1")
		assert.Error(t, err)
		assert.Equal(t, failure.KindInvalidTransition, failure.GetKind(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	approved := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)
	approved.UserID = "user-1"
	approved.UserName = "Owner"

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(set bookingMockSet)
		wantErr   bool
		wantKind  string
		settle    bool
	}{
		{
			name: "owner cancels an approved booking",
			ctx:  userCtx("user-1", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				set.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				set.publisher.EXPECT().PublishBookingEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "only the owner can cancel",
			ctx:  userCtx("someone-else", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
			},
			wantErr: true,
		},
		{
			name: "cannot cancel a pending booking",
			ctx:  userCtx("user-1", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				pending := approved
				pending.Status = model.StatusPending

				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantErr:  true,
			wantKind: failure.KindInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set, ctrl := newBookingService(t, bookingConfig())
			defer ctrl.Finish()

			tt.setupMock(set)

			err := svc.Cancel(tt.ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}
			} else {
				assert.NoError(t, err)
			}

			if tt.settle {
				time.Sleep(asyncSettle)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	pending := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)
	pending.Status = model.StatusPending
	pending.UserID = "user-1"

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateBookingRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
		wantKind  string
		settle    bool
	}{
		{
			name:      "empty update request",
			ctx:       userCtx("user-1", constant.RoleUser),
			req:       dto.UpdateBookingRequest{},
			setupMock: func(bookingMockSet) {},
			wantErr:   true,
		},
		{
			name: "only pending bookings can be modified",
			ctx:  userCtx("user-1", constant.RoleUser),
			req:  dto.UpdateBookingRequest{Description: "updated"},
			setupMock: func(set bookingMockSet) {
				approved := pending
				approved.Status = model.StatusApproved

				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
			},
			wantErr:  true,
			wantKind: failure.KindInvalidTransition,
		},
		{
			name: "only the owner can modify",
			ctx:  userCtx("someone-else", constant.RoleUser),
			req:  dto.UpdateBookingRequest{Description: "updated"},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantErr: true,
		},
		{
			name: "reschedule runs a fresh conflict scan",
			ctx:  userCtx("user-1", constant.RoleUser),
			req:  dto.UpdateBookingRequest{StartTime: "13:00", EndTime: "15:00"},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").Return(nil, nil)
				set.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, 13*60, fields[model.FieldStartMinute])
						assert.Equal(t, 15*60, fields[model.FieldEndMinute])

						return nil
					})
				set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "reschedule into an occupied window",
			ctx:  userCtx("user-1", constant.RoleUser),
			req:  dto.UpdateBookingRequest{StartTime: "13:00", EndTime: "15:00"},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().FindApproved(gomock.Any(), "room-1").
					Return([]model.Booking{approvedBooking("existing-1", "room-1", day, 14*60, 16*60)}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindSchedulingConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set, ctrl := newBookingService(t, bookingConfig())
			defer ctrl.Finish()

			tt.setupMock(set)

			err := svc.Update(tt.ctx, tt.req, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}
			} else {
				assert.NoError(t, err)
			}

			if tt.settle {
				time.Sleep(asyncSettle)
			}
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	pending := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)
	pending.Status = model.StatusPending
	pending.UserID = "user-1"

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(set bookingMockSet)
		wantErr   bool
		settle    bool
	}{
		{
			name: "owner deletes a pending booking",
			ctx:  userCtx("user-1", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "admin deletes another user's pending booking",
			ctx:  userCtx("admin-1", constant.RoleAdmin),
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				set.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			settle: true,
		},
		{
			name: "non-owner cannot delete",
			ctx:  userCtx("someone-else", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantErr: true,
		},
		{
			name: "approved bookings cannot be deleted",
			ctx:  userCtx("user-1", constant.RoleUser),
			setupMock: func(set bookingMockSet) {
				approved := pending
				approved.Status = model.StatusApproved

				set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set, ctrl := newBookingService(t, bookingConfig())
			defer ctrl.Finish()

			tt.setupMock(set)

			err := svc.Delete(tt.ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.settle {
				time.Sleep(asyncSettle)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	booking := approvedBooking("booking-1", "room-1", day, 9*60, 11*60)

	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		svc, set, ctrl := newBookingService(t, bookingConfig())
		defer ctrl.Finish()

		set.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		set.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "booking-1")
		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, "09:00", res.StartTime)
		assert.Equal(t, "11:00", res.EndTime)

		time.Sleep(asyncSettle)
	})

	t.Run("unknown booking returns not found", func(t *testing.T) {
		svc, set, ctrl := newBookingService(t, bookingConfig())
		defer ctrl.Finish()

		set.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Error(t, err)
	})
}
