package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/JaneshKapoor/nayraa/config"
	"github.com/JaneshKapoor/nayraa/handlers"
	"github.com/JaneshKapoor/nayraa/router"
	"github.com/JaneshKapoor/nayraa/services"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Println("defaulting:8080")
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "report-submissions"
	}

	ctx := context.Background()

	firebaseService, err := services.NewFirebaseService(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("failed to initialize firebase: %v", err)
	}
	defer firebaseService.Close()

	blobs := services.NewFirebaseBlobStore(firebaseService.Bucket)
	reports := services.NewFirestoreReportStore(firebaseService.Firestore)

	agent := services.NewDeviceAgentClient(cfg.DeviceAgentURL)
	gatekeeper := services.NewPermissionGatekeeper(agent, agent)

	var events services.EventPublisher
	if cfg.KafkaBootstrapServers != "" {
		publisher := services.NewKafkaPublisher(strings.Split(cfg.KafkaBootstrapServers, ","), cfg.KafkaTopic)
		defer publisher.Close()
		events = publisher
		log.Printf("submission events enabled on topic %s", cfg.KafkaTopic)
	}

	submitter := services.NewReportSubmitter(blobs, reports, agent, events)
	sessionService := services.NewCaptureSessionService(gatekeeper, agent, submitter)
	geocoder := services.NewGeocoderClient(cfg.GeocodingBaseURL, cfg.GeocodingAPIKey)

	app := handlers.NewApp(cfg, reports)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	searchHandler := handlers.NewSearchHandler(geocoder)
	reportHandler := handlers.NewReportHandler(reports)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	router.Register(r, app, sessionHandler, searchHandler, reportHandler)

	log.Printf("Starting server on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
