package archive

import "errors"

var (
	// ErrNotBmmCommitted is returned by ValidateHeader when a header's
	// hash is not present in the BMM commitment set.
	ErrNotBmmCommitted = errors.New("archive: header not bmm-committed")

	// ErrWrongPrev is returned by ValidateHeader when a header's
	// prev-side-block-hash does not match the current tip.
	ErrWrongPrev = errors.New("archive: header does not link to chain tip")

	// ErrNoSuchBlock is returned by Disconnect when asked to remove more
	// blocks than have been connected.
	ErrNoSuchBlock = errors.New("archive: not enough connected blocks to disconnect")
)
