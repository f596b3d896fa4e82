package ipgate

import "errors"

// Failure kinds surfaced by the gate. Handlers map these onto HTTP statuses;
// anything the store returns that is not classified here is treated as
// ErrStoreUnavailable and never echoed to the client verbatim.
var (
	ErrInvalidInput     = errors.New("ip or cidr must not be empty")
	ErrInvalidAddress   = errors.New("not a valid ip address or cidr")
	ErrDuplicate        = errors.New("ip or cidr already exists in the whitelist")
	ErrNotFound         = errors.New("whitelist entry not found")
	ErrLastEntry        = errors.New("cannot delete the last whitelist entry")
	ErrSelfLockout      = errors.New("change would remove your current ip from the whitelist")
	ErrStoreUnavailable = errors.New("whitelist store unavailable")
)
