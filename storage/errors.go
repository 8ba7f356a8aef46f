package storage

import "errors"

var (
	// ErrSnapshotNotFound indicates no snapshot has been saved yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptSnapshot indicates stored data failed consistency checks.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrSerializationFailed indicates encoding or decoding failed.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrNilSnapshot indicates a nil snapshot was passed to SaveSnapshot.
	ErrNilSnapshot = errors.New("nil snapshot")
)
