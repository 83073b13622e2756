// Package services contains application services for token management and identifier allocation
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/repository"
)

// ErrSequenceUnavailable is returned when the counter storage cannot be
// reached. Callers must fail the whole operation; an identifier is never
// fabricated locally.
var ErrSequenceUnavailable = errors.New("sequence storage unavailable")

// SequenceOptions controls how a raw counter value is rendered into a
// public identifier.
type SequenceOptions struct {
	Prefix      string
	PadWidth    int
	StartOffset int64
}

// SequenceAllocator mints unique, human-readable identifiers backed by
// named database counters.
type SequenceAllocator interface {
	// NextValue advances the named counter and formats the result,
	// e.g. NextValue(ctx, "request_id", SequenceOptions{Prefix: "REQ-", PadWidth: 6})
	// yields "REQ-000001" on a fresh counter.
	NextValue(ctx context.Context, name string, opts SequenceOptions) (string, error)
}

// SequenceAllocatorImpl implements SequenceAllocator on top of the
// sequence counter repository.
type SequenceAllocatorImpl struct {
	counterRepo repository.SequenceCounterRepository
}

// NewSequenceAllocator creates a new sequence allocator
func NewSequenceAllocator(counterRepo repository.SequenceCounterRepository) SequenceAllocator {
	return &SequenceAllocatorImpl{counterRepo: counterRepo}
}

func (s *SequenceAllocatorImpl) NextValue(ctx context.Context, name string, opts SequenceOptions) (string, error) {
	seq, err := s.counterRepo.Next(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSequenceUnavailable, err)
	}

	n := seq
	if opts.StartOffset > 0 {
		n = opts.StartOffset + seq - 1
	}

	return fmt.Sprintf("%s%0*d", opts.Prefix, opts.PadWidth, n), nil
}
