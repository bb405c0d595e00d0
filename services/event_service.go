package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockrating/types"
)

// EventPublisher delivers analysis events to a broker.
type EventPublisher interface {
	SendMessage(event types.AnalysisEvent) error
}

type EventServiceI interface {
	PublishAnalysis(symbol string, evaluation types.Evaluation) types.AnalysisEvent
}

type eventService struct {
	publishers []EventPublisher
	now        func() time.Time
}

// EventService publishes nowhere until replaced by NewEventService.
var EventService EventServiceI = &eventService{now: time.Now}

func NewEventService(publishers ...EventPublisher) EventServiceI {
	return &eventService{publishers: publishers, now: time.Now}
}

// PublishAnalysis sends a notification for a finished evaluation to every
// publisher. Delivery is best effort; failures are only logged.
func (e *eventService) PublishAnalysis(symbol string, evaluation types.Evaluation) types.AnalysisEvent {
	event := types.AnalysisEvent{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		Intent:    evaluation.Intent,
		Rating:    evaluation.Rating,
		Advice:    evaluation.Advice,
		Movement:  evaluation.Movement,
		CreatedAt: e.now().UTC(),
	}

	for _, p := range e.publishers {
		if err := p.SendMessage(event); err != nil {
			zap.L().Error("Error publishing analysis event", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return event
}
