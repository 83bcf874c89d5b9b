package db

import (
	"context"

	"github.com/shandysiswandi/goauthn/internal/notification/entity"
)

func (s *DB) CreateSecurityEvent(ctx context.Context, in entity.CreateSecurityEvent) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSecurityEvent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO notification_security_events (id, user_id, trigger_key, data, delivery_status)
		VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.UserID, in.TriggerKey.String(), in.Data, int16(in.Delivery),
	)
	return s.mapError(err)
}

func (s *DB) UpdateSecurityEventDelivery(ctx context.Context, id int64, status entity.DeliveryStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateSecurityEventDelivery")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE notification_security_events
		SET delivery_status = $2
		WHERE id = $1`,
		id, int16(status),
	)
	return s.mapError(err)
}

func (s *DB) ListSecurityEventsByUser(ctx context.Context, userID int64, limit int32) (_ []entity.SecurityEvent, err error) {
	ctx, span := s.startSpan(ctx, "ListSecurityEventsByUser")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, trigger_key, data, delivery_status, created_at
		FROM notification_security_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var events []entity.SecurityEvent
	for rows.Next() {
		var ev entity.SecurityEvent
		var trigger string
		var status int16
		if err = rows.Scan(&ev.ID, &ev.UserID, &trigger, &ev.Data, &status, &ev.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}

		ev.TriggerKey = entity.TriggerKey(trigger)
		ev.Delivery = entity.DeliveryStatus(status)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return events, nil
}
