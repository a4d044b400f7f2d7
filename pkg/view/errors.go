package view

import (
	"errors"
	"fmt"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

var (
	// ErrContainerOccupied means another renderer is still mounted on the container.
	ErrContainerOccupied = errors.New("display container already occupied")
	// ErrContainerUnavailable means the display container cannot host a renderer.
	ErrContainerUnavailable = errors.New("display container unavailable")
	// ErrSwitchInProgress is returned for a switch requested while one is running.
	ErrSwitchInProgress = errors.New("view switch already in progress")
	// ErrNotInitialized is returned for a switch before Initialize.
	ErrNotInitialized = errors.New("viewer not initialized")
	// ErrUnknownCommand is returned by Dispatch and ParseCommand.
	ErrUnknownCommand = errors.New("unknown command")
)

// MountError reports a renderer that could not be bound to the display container.
type MountError struct {
	Container string
	Kind      viewpoint.Kind
	Err       error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount %s renderer on %q: %v", e.Kind, e.Container, e.Err)
}

func (e *MountError) Unwrap() error {
	return e.Err
}

// SwitchError reports an aborted view switch. When RolledBack is true the
// pre-switch renderer is mounted again and still active.
type SwitchError struct {
	From       viewpoint.Kind
	To         viewpoint.Kind
	RolledBack bool
	Err        error
}

func (e *SwitchError) Error() string {
	state := "rolled back"
	if !e.RolledBack {
		state = "rollback failed"
	}
	return fmt.Sprintf("switch from %s to %s aborted (%s): %v", e.From, e.To, state, e.Err)
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

// ConstructionError is a fatal startup failure: the scene, its layers or a
// renderer could not be created.
type ConstructionError struct {
	Component string
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %v", e.Component, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
