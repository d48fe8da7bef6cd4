package domain

import (
	"errors"
)

// ErrAgentNotProvisioned means the resolved client has no assistant identity
// configured on the voice runtime. This is fatal for the webhook: an
// unconfigured client cannot safely originate a call, and retrying will not
// fix it.
var ErrAgentNotProvisioned = errors.New("client has no provisioned assistant")

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoControlHandle means a transfer was requested on a call that carries no
// live-control handle, so there is no channel to issue the transfer on.
var ErrNoControlHandle = errors.New("call has no live-control handle")
