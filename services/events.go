package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JaneshKapoor/nayraa/models"
)

// KafkaPublisher announces submitted reports on a kafka topic so downstream
// pipelines (triage, analysis) can pick them up. Publishing is best effort;
// the submitter logs and moves on when it fails.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer}
}

type reportSubmittedEvent struct {
	TicketID    string    `json:"ticket_id"`
	PhotoURL    string    `json:"photo_url"`
	VideoURL    string    `json:"video_url"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (p *KafkaPublisher) ReportSubmitted(ctx context.Context, report *models.Report) error {
	event := reportSubmittedEvent{
		TicketID:    report.TicketID,
		PhotoURL:    report.PhotoURL,
		VideoURL:    report.VideoURL,
		Latitude:    report.Location.GetLatitude(),
		Longitude:   report.Location.GetLongitude(),
		Status:      string(report.Status),
		SubmittedAt: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(report.TicketID),
		Value: data,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
