package adminauth

import (
	"context"
	"sync"
)

//
// --- Admin-Auth Check ---
//
// Answers "is the current user an admin" by sequencing two provider
// calls: first the auth provider ("who is this"), then the role lookup
// ("do they hold the administrator role"). The role lookup never runs
// without a preceding successful user fetch.
//

// User is the identity record the auth provider hands back.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthProvider answers the "current user" query.
// A (nil, nil) return means anonymous — that is NOT an error.
type AuthProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// RoleLookup answers whether the given user holds elevated privileges.
type RoleLookup func(ctx context.Context, userID string) (bool, error)

// Status is the single value consumers render from.
// It starts as loading and transitions exactly once to a terminal
// resolved state (success or error).
type Status struct {
	IsAdmin bool    `json:"isAdmin"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
	UserID  *string `json:"userId"`
}

// genericFailure is used when a provider failure carries no message.
const genericFailure = "Failed to check admin status"

// Resolve runs the two-step check to completion and returns the
// terminal status. Anonymous resolves to a plain non-admin state.
func Resolve(ctx context.Context, provider AuthProvider, lookup RoleLookup) Status {
	// 1. Ask the auth provider who the current user is.
	user, err := provider.CurrentUser(ctx)
	if err != nil {
		return errorStatus(err)
	}
	if user == nil {
		// No session. Not an error: the caller just isn't signed in.
		return Status{IsAdmin: false, Loading: false, Error: nil, UserID: nil}
	}

	// 2. We have a user, so consult the role lookup.
	isAdmin, err := lookup(ctx, user.ID)
	if err != nil {
		return errorStatus(err)
	}

	userID := user.ID
	return Status{IsAdmin: isAdmin, Loading: false, Error: nil, UserID: &userID}
}

func errorStatus(err error) Status {
	msg := genericFailure
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Status{IsAdmin: false, Loading: false, Error: &msg, UserID: nil}
}

//
// --- Checker (stateful adapter) ---
//

// Checker owns one check lifecycle for one consumer. It starts in the
// loading state, resolves exactly once in the background, and reports
// the terminal status through onChange. Stop() before resolution
// discards the in-flight result: no further transition happens, so a
// torn-down consumer is never updated.
type Checker struct {
	provider AuthProvider
	lookup   RoleLookup
	onChange func(Status)

	mu      sync.Mutex
	stopped bool
	status  Status
}

// NewChecker builds a Checker in the initial loading state.
// onChange may be nil if the consumer polls Status() instead.
func NewChecker(provider AuthProvider, lookup RoleLookup, onChange func(Status)) *Checker {
	return &Checker{
		provider: provider,
		lookup:   lookup,
		onChange: onChange,
		status:   Status{IsAdmin: false, Loading: true, Error: nil, UserID: nil},
	}
}

// Start kicks off the resolution in the background.
func (c *Checker) Start(ctx context.Context) {
	go func() {
		st := Resolve(ctx, c.provider, c.lookup)

		c.mu.Lock()
		if c.stopped {
			// Consumer is gone; discard the result.
			c.mu.Unlock()
			return
		}
		c.status = st
		cb := c.onChange
		c.mu.Unlock()

		if cb != nil {
			cb(st)
		}
	}()
}

// Stop marks the checker as torn down. Any in-flight resolution that
// finishes afterwards is dropped without a state transition.
func (c *Checker) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

// Status returns the current state (loading until resolution lands).
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
