package services

import (
	"context"
	"encoding/json"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pulseprep/ecg_api/model"
)

// EventService is the glue between progress-state changes and downstream
// notification consumers: events are logged and published on a Redis channel.
type EventService struct {
	appContext.DefaultService

	redisSvc *RedisService
	channel  string
}

const EVENT_SVC = "event_svc"

const (
	EventLessonCompleted = "lesson_completed"
	EventHeartsExhausted = "hearts_exhausted"
)

type ProgressEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	LessonID   string    `json:"lesson_id"`
	Score      int       `json:"score"`
	Mistakes   int       `json:"mistakes"`
	Hearts     int       `json:"hearts"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (svc EventService) Id() string {
	return EVENT_SVC
}

func (svc *EventService) Configure(ctx *appContext.Context) error {
	svc.channel = "progress.events"
	return svc.DefaultService.Configure(ctx)
}

func (svc *EventService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *EventService) PublishProgress(userID string, progress *model.LessonProgress, eventType string) error {
	event := ProgressEvent{
		Type:       eventType,
		UserID:     userID,
		LessonID:   progress.LessonID,
		Score:      progress.Score,
		Mistakes:   progress.Mistakes,
		Hearts:     progress.Hearts,
		OccurredAt: time.Now(),
	}

	log.WithFields(log.Fields{
		"type":      event.Type,
		"user_id":   event.UserID,
		"lesson_id": event.LessonID,
		"score":     event.Score,
	}).Info("Progress event")

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return svc.redisSvc.Publish(context.Background(), svc.channel, payload)
}
