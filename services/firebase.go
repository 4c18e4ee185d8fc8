package services

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseService bundles the Firestore client and the storage bucket the
// report pipeline writes to. Constructed once in main and handed to the
// stores; nothing holds these as package state.
type FirebaseService struct {
	App       *firebase.App
	Firestore *firestore.Client
	Bucket    *storage.BucketHandle
}

func NewFirebaseService(ctx context.Context, credentialsPath, storageBucket string) (*FirebaseService, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	conf := &firebase.Config{StorageBucket: storageBucket}
	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, err
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		firestoreClient.Close()
		return nil, err
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		firestoreClient.Close()
		return nil, err
	}

	log.Println("Firebase initialized successfully")

	return &FirebaseService{
		App:       app,
		Firestore: firestoreClient,
		Bucket:    bucket,
	}, nil
}

func (fs *FirebaseService) Close() error {
	return fs.Firestore.Close()
}
