package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/JaneshKapoor/nayraa/services"
)

// One-off: early report documents were written without a status field.
// Stamps every such document as pending so the triage queue picks them up.
func main() {
	creds := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if creds == "" {
		creds = "./firebase-service-account.json"
	}
	bucket := os.Getenv("STORAGE_BUCKET")

	ctx := context.Background()
	svc, err := services.NewFirebaseService(ctx, creds, bucket)
	if err != nil {
		log.Fatalf("failed to init firebase: %v", err)
	}
	defer svc.Close()

	iter := svc.Firestore.Collection("reports").Documents(ctx)
	defer iter.Stop()

	var updated, scanned int
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatalf("failed iterating reports: %v", err)
		}
		scanned++

		data := doc.Data()

		if v, ok := data["status"]; ok {
			if s, ok2 := v.(string); ok2 && s != "" {
				continue
			}
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: "pending"},
		})
		if err != nil {
			log.Printf("failed to update doc %s: %v", doc.Ref.ID, err)
			continue
		}
		updated++
		log.Printf("updated doc %s with status=pending", doc.Ref.ID)
	}

	log.Printf("scanned=%d updated=%d", scanned, updated)
}
