package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"terras/infras/otel"
	"terras/infras/postgres"
	"terras/internal/domains/booking/model"
	"terras/shared/constant"
	gDto "terras/shared/dto"
	gRepo "terras/shared/repository"
)

// ErrSlotTaken is returned by the guarded writes when the conflict re-check
// inside the room lock finds an approved overlap.
var ErrSlotTaken = errors.New("requested slot is already taken")

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindApproved(ctx context.Context, roomID string) ([]model.Booking, error)
	InsertGuarded(ctx context.Context, booking model.Booking) error
	UpdateGuarded(ctx context.Context, booking model.Booking, fields map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FindApproved returns every approved booking for a room, the working set of
// the conflict scan.
func (repo *repositoryImpl) FindApproved(ctx context.Context, roomID string) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindApproved")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusApproved, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// InsertGuarded inserts a booking inside a transaction that holds the
// per-room advisory lock, re-checking approved overlaps first. Returns
// ErrSlotTaken when the window was claimed by a concurrent approval.
func (repo *repositoryImpl) InsertGuarded(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to rollback booking insert")
			}
		}
	}()

	if err = repo.lockRoom(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	taken, err := repo.overlapExists(ctx, tx, booking, constant.Empty)
	if err != nil {
		return err
	}

	if taken {
		return ErrSlotTaken
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking insert: %w", err)
	}

	return nil
}

// UpdateGuarded applies a field update inside the room lock after re-checking
// that the booking's window is still free of other approved bookings. Used by
// approval, where the scan must exclude the booking being approved.
func (repo *repositoryImpl) UpdateGuarded(ctx context.Context, booking model.Booking, fields map[string]any, filter gDto.FilterGroup) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to rollback booking update")
			}
		}
	}()

	if err = repo.lockRoom(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	taken, err := repo.overlapExists(ctx, tx, booking, booking.ID)
	if err != nil {
		return err
	}

	if taken {
		return ErrSlotTaken
	}

	if err = repo.UpdateTx(ctx, tx, fields, filter); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking update: %w", err)
	}

	return nil
}

// lockRoom serializes schedule writes per room for the rest of the
// transaction. hashtext keeps the lock keyspace stable across sessions.
func (repo *repositoryImpl) lockRoom(ctx context.Context, tx execer, roomID string) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", roomID); err != nil {
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return nil
}

// overlapExists runs the conflict predicate in SQL. The daily window is the
// same on every day of a booking, so a date range overlap combined with a
// time window overlap is exactly the per-day scan.
func (repo *repositoryImpl) overlapExists(ctx context.Context, tx queryer, booking model.Booking, excludeID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_id = $1
		  AND status = $2
		  AND start_date <= $3
		  AND end_date >= $4
		  AND start_minute < $5
		  AND end_minute > $6`
	args := []any{booking.RoomID, model.StatusApproved, booking.EndDate, booking.StartDate, booking.EndMinute, booking.StartMinute}

	if excludeID != constant.Empty {
		query += " AND id != $7"
		args = append(args, excludeID)
	}

	query += ")"

	var taken bool
	if err := tx.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return taken, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}
