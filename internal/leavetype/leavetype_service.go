package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	leavetypeerrors "go-elms/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const CacheKey = "leave_types:all"

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Find(ctx context.Context, id string) (LeaveType, error)
	FindAll(ctx context.Context) ([]LeaveType, error)
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

// FindAll serves the reference list from Redis when possible. Types change
// rarely and every submit reads them.
func (s *service) FindAll(ctx context.Context) ([]LeaveType, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CacheKey).Result(); err == nil {
			var types []LeaveType
			if json.Unmarshal([]byte(cached), &types) == nil {
				return types, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(types); err == nil {
				if err := s.rdb.Set(ctx, CacheKey, payload, time.Hour).Err(); err != nil {
					s.logger.Warn("cache leave types failed", zap.Error(err))
				}
			}
		}
		return types, nil
	})
	if err != nil {
		s.logger.Error("load leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveType), nil
}

func (s *service) Find(ctx context.Context, id string) (LeaveType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveType{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	types, err := s.FindAll(ctx)
	if err != nil {
		return LeaveType{}, err
	}
	for _, lt := range types {
		if lt.ID.String() == id {
			return lt, nil
		}
	}
	return LeaveType{}, leavetypeerrors.ErrLeaveTypeNotFound
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	lt, err := s.Find(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(lt), nil
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested", zap.String("code", req.Code))

	lt := &LeaveType{
		ID:       uuid.New(),
		IsActive: true,
	}
	applyRequest(lt, req)

	if err := s.repo.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type failed", zap.String("code", req.Code), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx)

	s.logger.Info("create leave type success", zap.String("leave_type_id", lt.ID.String()))
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested", zap.String("leave_type_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	applyRequest(lt, req.CreateLeaveTypeRequest)
	lt.IsActive = req.IsActive

	if err := s.repo.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx)

	s.logger.Info("update leave type success", zap.String("leave_type_id", id))
	return mapToResponse(*lt), nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache",
			zap.Error(err),
			zap.String("key", CacheKey),
		)
	}
}

func applyRequest(lt *LeaveType, req CreateLeaveTypeRequest) {
	lt.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	lt.Name = strings.TrimSpace(req.Name)
	lt.MaxDays = req.MaxDays
	lt.DefaultAllocation = decimal.NewFromFloat(req.DefaultAllocation)
	lt.RequiresAttachment = req.RequiresAttachment
	lt.IsPaid = req.IsPaid
	lt.TracksBalance = req.TracksBalance && req.IsPaid
	lt.AccrualRate = decimal.NewFromFloat(req.AccrualRate)
	lt.CarryForward = req.CarryForward
	lt.MaxCarryForward = nil
	if req.MaxCarryForward != nil {
		v := decimal.NewFromFloat(*req.MaxCarryForward)
		lt.MaxCarryForward = &v
	}
	lt.ApplicableRoles = pq.StringArray(req.ApplicableRoles)
	lt.Color = req.Color
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_code" {
		return leavetypeerrors.ErrLeaveTypeCodeExists
	}
	return err
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:                 lt.ID.String(),
		Code:               lt.Code,
		Name:               lt.Name,
		MaxDays:            lt.MaxDays,
		DefaultAllocation:  lt.DefaultAllocation.InexactFloat64(),
		RequiresAttachment: lt.RequiresAttachment,
		IsPaid:             lt.IsPaid,
		TracksBalance:      lt.TracksBalance,
		AccrualRate:        lt.AccrualRate.InexactFloat64(),
		CarryForward:       lt.CarryForward,
		ApplicableRoles:    []string(lt.ApplicableRoles),
		Color:              lt.Color,
		IsActive:           lt.IsActive,
	}
	if resp.ApplicableRoles == nil {
		resp.ApplicableRoles = []string{}
	}
	if lt.MaxCarryForward != nil {
		v := lt.MaxCarryForward.InexactFloat64()
		resp.MaxCarryForward = &v
	}
	return resp
}
