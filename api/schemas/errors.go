package schemas

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores, the storage adapters and the renderer.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrDuplicateName indicates a hero with the same name already exists.
	ErrDuplicateName = errors.New("duplicate hero name")

	// ErrDuplicateRelation indicates the pair is already linked, in either orientation.
	ErrDuplicateRelation = errors.New("duplicate connection")

	// ErrSelfLoop indicates an attempt to link a hero to itself.
	ErrSelfLoop = errors.New("hero cannot connect to itself")

	// ErrUnknownEntity indicates a link endpoint that is not a known hero.
	ErrUnknownEntity = errors.New("unknown hero")

	// ErrInvalidInput indicates malformed user input (non-numeric id, blank name).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrIOFailure indicates the storage collaborator could not read or write.
	ErrIOFailure = errors.New("storage i/o failure")

	// ErrRenderUnavailable indicates the rendering collaborator is missing or failed.
	ErrRenderUnavailable = errors.New("rendering unavailable")
)

// Endpoint-specific variants of ErrUnknownEntity.
var (
	ErrUnknownSource = fmt.Errorf("%w: source", ErrUnknownEntity)
	ErrUnknownTarget = fmt.Errorf("%w: target", ErrUnknownEntity)
)
