package store

import "github.com/amishk599/jobdigest/internal/model"

// Ensure NopStore implements model.DigestStore.
var _ model.DigestStore = (*NopStore)(nil)

// NopStore is a no-op store used by preview runs. Nothing is persisted and
// every listing is empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveDigest(model.Digest) (int64, error)            { return 0, nil }
func (s *NopStore) MarkDelivered(int64) error                         { return nil }
func (s *NopStore) ListDigests(int) ([]model.DigestSummary, error)    { return nil, nil }
func (s *NopStore) LoadRecords(int64) ([]model.JobRecord, error)      { return nil, nil }
func (s *NopStore) SaveCompletion(model.CompletionEntry) error        { return nil }
func (s *NopStore) ListCompletions() ([]model.CompletionEntry, error) { return nil, nil }
func (s *NopStore) Close() error                                      { return nil }
