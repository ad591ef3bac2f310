package agentboard

import (
	"errors"

	"github.com/jpalmerr/agentboard/internal/apiclient"
)

var (
	// ErrEmptyMessage is returned when an agent test is requested with an
	// empty message. No request is issued.
	ErrEmptyMessage = errors.New("test message is empty")

	// ErrUnknownAgent is returned when an action targets an agent without
	// the display element it needs. No request is issued.
	ErrUnknownAgent = errors.New("agent has no bound element")

	// ErrSaveRejected is returned when the backend answers a config save
	// with success=false.
	ErrSaveRejected = errors.New("config save rejected by backend")

	// ErrTransport matches every network, status or decode failure.
	// Use errors.Is(err, ErrTransport).
	ErrTransport = apiclient.ErrTransport
)
