package repository

import (
	"context"
	"diagform/internal/model"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFileSnapshotStore_WriteOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	snap := &model.Snapshot{Name: "responses-Ray-Ana-2024-01-01T10-00-00-000Z.json", Data: []byte(`{"a":1}`)}
	require.NoError(t, store.Put(context.Background(), snap))

	data, err := os.ReadFile(filepath.Join(dir, snap.Name))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	err = store.Put(context.Background(), &model.Snapshot{Name: snap.Name, Data: []byte(`{"b":2}`)})
	assert.ErrorIs(t, err, ErrSnapshotExists)

	// the first write is untouched
	data, err = os.ReadFile(filepath.Join(dir, snap.Name))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestFileSnapshotStore_RejectsPaths(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape.json", "sub/dir.json"} {
		assert.Error(t, store.Put(context.Background(), &model.Snapshot{Name: name}), name)
	}
}

func TestArtifactDir(t *testing.T) {
	dir := t.TempDir()
	artifacts, err := NewArtifactDir(dir)
	require.NoError(t, err)

	path, err := artifacts.Write("radar-x.xlsx", []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "radar-x.xlsx"), path)
	assert.FileExists(t, path)

	require.NoError(t, artifacts.Remove("radar-x.xlsx"))
	assert.NoFileExists(t, path)

	// removing twice is fine
	assert.NoError(t, artifacts.Remove("radar-x.xlsx"))

	_, err = artifacts.Write("../x.xlsx", nil)
	assert.Error(t, err)
}

func TestSnapshotDocument_KeepsDollarKeys(t *testing.T) {
	payloads := []string{
		`{"Notes libres": {"$numberInt": "beaucoup"}}`,
		`{"Autre": {"$date": "hier"}}`,
		`{"Ref": {"$oid": "5f1b2c3d4e5f6a7b8c9d0e1f"}, "A": [{"question": "1. q", "note": "4"}]}`,
	}
	received := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, payload := range payloads {
		doc := newSnapshotDocument(&model.Snapshot{
			Name:         "responses-Ray-Ana.json",
			SubmissionID: "id-1",
			ReceivedAt:   received,
			Data:         []byte(payload),
		})

		raw, err := bson.Marshal(doc)
		require.NoError(t, err, payload)

		var back snapshotDocument
		require.NoError(t, bson.Unmarshal(raw, &back), payload)
		assert.Equal(t, payload, back.Payload)
		assert.Equal(t, "responses-Ray-Ana.json", back.Name)
		assert.Equal(t, "id-1", back.SubmissionID)
		assert.True(t, received.Equal(back.ReceivedAt))
	}
}
