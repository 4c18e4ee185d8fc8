package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"google.golang.org/api/iterator"

	"github.com/JaneshKapoor/nayraa/config"
	"github.com/JaneshKapoor/nayraa/services"
)

// Dispatcher is the back-office side of the submission pipeline: it consumes
// submission events and stamps the matching report document as acknowledged,
// which is what moves a ticket into the triage queue.
type Dispatcher struct {
	firestore *firestore.Client
}

type submissionEvent struct {
	TicketID    string    `json:"ticket_id"`
	PhotoURL    string    `json:"photo_url"`
	VideoURL    string    `json:"video_url"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (d *Dispatcher) acknowledge(ctx context.Context, event submissionEvent) error {
	iter := d.firestore.Collection("reports").
		Where("ticketId", "==", event.TicketID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		// The event can outrun the document write; a redelivery will find it.
		log.Printf("no report document yet for ticket=%s", event.TicketID)
		return err
	}
	if err != nil {
		return err
	}

	_, err = doc.Ref.Update(ctx, []firestore.Update{
		{Path: "acknowledgedAt", Value: firestore.ServerTimestamp},
	})
	return err
}

func (d *Dispatcher) Start(ctx context.Context, brokers []string, topic string) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        "report-dispatcher-group",
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	log.Println("Dispatcher started, waiting for submission events...")

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down dispatcher...")
			return nil
		default:
			msg, err := reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled {
					return nil
				}
				log.Printf("Error fetching message: %v", err)
				time.Sleep(time.Second)
				continue
			}

			var event submissionEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("Failed to unmarshal event: %v", err)
				reader.CommitMessages(ctx, msg)
				continue
			}

			if err := d.acknowledge(ctx, event); err != nil {
				// Leave the message uncommitted so it is redelivered.
				log.Printf("Failed to acknowledge ticket=%s: %v", event.TicketID, err)
				continue
			}

			log.Printf("Acknowledged ticket=%s", event.TicketID)
			reader.CommitMessages(ctx, msg)
		}
	}
}

func main() {
	godotenv.Load()
	cfg := config.Load()

	if cfg.KafkaBootstrapServers == "" {
		log.Fatal("KAFKA_BOOTSTRAP_SERVERS not set")
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "report-submissions"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firebaseService, err := services.NewFirebaseService(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("failed to initialize firebase: %v", err)
	}
	defer firebaseService.Close()

	dispatcher := &Dispatcher{firestore: firebaseService.Firestore}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("shutdown signal")
		cancel()
	}()

	if err := dispatcher.Start(ctx, strings.Split(cfg.KafkaBootstrapServers, ","), cfg.KafkaTopic); err != nil {
		log.Fatalf("Dispatcher failed: %v", err)
	}
}
