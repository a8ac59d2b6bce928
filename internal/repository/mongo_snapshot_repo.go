package repository

import (
	"context"
	"diagform/internal/model"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// snapshotDocument stores the submission JSON as received, byte for byte
type snapshotDocument struct {
	Name         string    `bson:"_id"`
	SubmissionID string    `bson:"submissionId"`
	ReceivedAt   time.Time `bson:"receivedAt"`
	Payload      string    `bson:"payload"`
}

func newSnapshotDocument(snapshot *model.Snapshot) snapshotDocument {
	return snapshotDocument{
		Name:         snapshot.Name,
		SubmissionID: snapshot.SubmissionID,
		ReceivedAt:   snapshot.ReceivedAt,
		Payload:      string(snapshot.Data),
	}
}

type mongoSnapshotStore struct {
	snapshots *mongo.Collection
}

// NewMongoSnapshotStore stores snapshots in the submissions collection
func NewMongoSnapshotStore(db *mongo.Database) SnapshotStore {
	return &mongoSnapshotStore{
		snapshots: db.Collection("submissions"),
	}
}

func (r *mongoSnapshotStore) Put(ctx context.Context, snapshot *model.Snapshot) error {
	_, err := r.snapshots.InsertOne(ctx, newSnapshotDocument(snapshot))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, snapshot.Name)
	}
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snapshot.Name, err)
	}
	return nil
}
