// README: Operator notification on hand-off; FCM topic push or a log line.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"charterdesk/internal/types"
)

var ErrNoOperator = errors.New("booking has no operator")

type Notifier interface {
	Notify(ctx context.Context, b Booking) error
}

// Topic is the FCM topic an operator's desk devices subscribe to.
func Topic(operatorID types.ID) string {
	return "operator-" + string(operatorID)
}

// Message builds the FCM data message for b.
func Message(b Booking) *messaging.Message {
	data := map[string]string{
		"type":            "charter_handoff",
		"conversation_id": string(b.ConversationID),
		"operator_id":     string(b.OperatorID),
		"aircraft":        b.Aircraft,
		"price_gbp":       strconv.FormatInt(b.PriceGBP, 10),
		"origin":          b.Trip.Origin,
		"destination":     b.Trip.Destination,
		"date":            b.Trip.Date,
		"pax":             strconv.Itoa(b.Trip.Pax),
		"role":            b.Role,
		"confirmed_at":    b.ConfirmedAt.UTC().Format(time.RFC3339),
	}
	return &messaging.Message{
		Topic: Topic(b.OperatorID),
		Data:  data,
		Notification: &messaging.Notification{
			Title: "New charter hand-off",
			Body: fmt.Sprintf("%s %s to %s on %s, %s",
				b.Aircraft, b.Trip.Origin, b.Trip.Destination, b.Trip.Date, types.FormatGBP(b.PriceGBP)),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}

// FCMNotifier pushes hand-offs to the operator's topic.
type FCMNotifier struct {
	client *messaging.Client
	logger *zap.Logger
}

func NewFCMNotifier(ctx context.Context, app *firebase.App, logger *zap.Logger) (*FCMNotifier, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMNotifier{client: client, logger: logger}, nil
}

func (n *FCMNotifier) Notify(ctx context.Context, b Booking) error {
	if b.OperatorID == "" {
		return ErrNoOperator
	}
	id, err := n.client.Send(ctx, Message(b))
	if err != nil {
		return fmt.Errorf("send FCM to %s: %w", Topic(b.OperatorID), err)
	}
	n.logger.Info("hand-off sent",
		zap.String("conversation_id", string(b.ConversationID)),
		zap.String("operator_id", string(b.OperatorID)),
		zap.String("message_id", id))
	return nil
}

// LogNotifier records hand-offs without sending anything.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, b Booking) error {
	if b.OperatorID == "" {
		return ErrNoOperator
	}
	n.logger.Info("hand-off recorded",
		zap.String("conversation_id", string(b.ConversationID)),
		zap.String("operator_id", string(b.OperatorID)),
		zap.String("aircraft", b.Aircraft),
		zap.Int64("price_gbp", b.PriceGBP))
	return nil
}
