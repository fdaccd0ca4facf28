package mocks

import (
	"context"

	"media-catalog/core/ledger"
	"media-catalog/core/snapshot"

	"github.com/stretchr/testify/mock"
)

// Recorder is a mock implementation of ledger.Recorder
type Recorder struct {
	mock.Mock
}

func (m *Recorder) Record(ctx context.Context, snap *snapshot.Snapshot, documentPath string) (*ledger.SnapshotRecord, error) {
	args := m.Called(ctx, snap, documentPath)
	if rec, ok := args.Get(0).(*ledger.SnapshotRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
