package identity

import (
	"context"
	"errors"

	"task-marketplace.com/task-marketplace/internal/constants"
)

// Actor is a resolved caller.
type Actor struct {
	ID   string
	Kind constants.ActorKind
}

func (a Actor) IsRequester() bool {
	return a.Kind == constants.ActorRequester
}

func (a Actor) IsProvider() bool {
	return a.Kind == constants.ActorProvider
}

// Directory resolves a bearer credential to the actor it was issued for.
// Credential storage and issuance live outside this service.
type Directory interface {
	Resolve(ctx context.Context, credential string) (Actor, error)
}

var ErrInvalidCredential = errors.New("invalid credential")
