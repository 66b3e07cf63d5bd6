package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-elms/internal/domain"
	"go-elms/internal/events"
	notificationerrors "go-elms/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// FromLeaveEvent stores one notification per recipient of e and returns
	// how many were new. Redelivered events create nothing.
	FromLeaveEvent(ctx context.Context, e events.LeaveEvent) (int, error)
	ListMine(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }, logger: l}
}

type message struct {
	userID uuid.UUID
	title  string
	body   string
}

func (s *service) FromLeaveEvent(ctx context.Context, e events.LeaveEvent) (int, error) {
	created := 0
	for _, m := range recipients(e) {
		requestID := e.RequestID
		n := &Notification{
			ID:        uuid.New(),
			EventID:   e.EventID,
			UserID:    m.userID,
			Kind:      e.EventType,
			Title:     m.title,
			Body:      m.body,
			RequestID: &requestID,
			CreatedAt: s.now(),
		}
		if err := s.repo.Create(ctx, n); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				s.logger.Debug("duplicate notification ignored",
					zap.String("event_id", e.EventID.String()),
					zap.String("user_id", m.userID.String()),
				)
				continue
			}
			s.logger.Error("create notification failed",
				zap.String("event_id", e.EventID.String()),
				zap.String("user_id", m.userID.String()),
				zap.Error(err),
			)
			return created, err
		}
		created++
	}
	return created, nil
}

// recipients decides who hears about e. Each user appears at most once.
func recipients(e events.LeaveEvent) []message {
	ref := e.Reference
	var out []message
	add := func(id *uuid.UUID, title, body string) {
		if id == nil || *id == uuid.Nil {
			return
		}
		for _, m := range out {
			if m.userID == *id {
				return
			}
		}
		out = append(out, message{userID: *id, title: title, body: body})
	}
	requester := e.RequesterID

	switch e.EventType {
	case events.LeaveRequestSubmitted:
		add(e.NextApproverID, "Leave awaiting your approval",
			fmt.Sprintf("Leave request %s (%d days) is waiting for your decision.", ref, e.Days))
	case events.LeaveStepApproved:
		add(&requester, "Leave step approved",
			fmt.Sprintf("The %s step of %s was approved.", e.Role, ref))
		add(e.NextApproverID, "Leave awaiting your approval",
			fmt.Sprintf("Leave request %s (%d days) is waiting for your decision.", ref, e.Days))
	case events.LeaveStepRejected:
		add(&requester, "Leave step rejected",
			fmt.Sprintf("The %s step of %s was rejected.", e.Role, ref))
	case events.LeaveRequestFinalized:
		add(&requester, "Leave request "+e.Status,
			fmt.Sprintf("Leave request %s is now %s.", ref, e.Status))
	case events.LeaveRequestCancelled:
		add(e.ApproverID, "Leave request cancelled",
			fmt.Sprintf("Leave request %s was cancelled by the requester.", ref))
	}
	return out
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.ListByUser(ctx, actor.ID, unreadOnly)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", actor.ID.String()), zap.Error(err))
		return nil, err
	}
	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = mapToResponse(n)
	}
	return out, nil
}

func (s *service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	ok, err := s.repo.MarkRead(ctx, nid, actor.ID, s.now())
	if err != nil {
		s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RequestID != nil {
		v := n.RequestID.String()
		resp.RequestID = &v
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
