package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/JaneshKapoor/nayraa/models"
)

const reportsCollection = "reports"

// FirebaseBlobStore stores capture artifacts in the Firebase storage
// bucket under reports/{ticketId}/.
type FirebaseBlobStore struct {
	bucket *storage.BucketHandle
}

func NewFirebaseBlobStore(bucket *storage.BucketHandle) *FirebaseBlobStore {
	return &FirebaseBlobStore{bucket: bucket}
}

func (s *FirebaseBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	obj := s.bucket.Object(path)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read attrs of %s: %w", path, err)
	}
	return attrs.MediaLink, nil
}

func (s *FirebaseBlobStore) Delete(ctx context.Context, path string) error {
	return s.bucket.Object(path).Delete(ctx)
}

// FirestoreReportStore persists report documents in the reports collection.
type FirestoreReportStore struct {
	client *firestore.Client
}

func NewFirestoreReportStore(client *firestore.Client) *FirestoreReportStore {
	return &FirestoreReportStore{client: client}
}

func (s *FirestoreReportStore) Add(ctx context.Context, report *models.Report) error {
	_, _, err := s.client.Collection(reportsCollection).Add(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to save report record: %w", err)
	}
	return nil
}

func (s *FirestoreReportStore) FindByTicket(ctx context.Context, ticketID string) (*models.Report, error) {
	iter := s.client.Collection(reportsCollection).
		Where("ticketId", "==", ticketID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report models.Report
	if err := doc.DataTo(&report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// CountReports walks the reports collection; used by the health probe only.
func (s *FirestoreReportStore) CountReports(ctx context.Context) (int, error) {
	iter := s.client.Collection(reportsCollection).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count reports: %w", err)
		}
		count++
	}
	return count, nil
}
