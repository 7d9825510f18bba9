package identity

import (
	"context"

	"contenthub/app/models"
)

var _ Provider = (*Gate)(nil)

// Gate fronts a Provider and reports every sign-in and sign-out on Events.
type Gate struct {
	provider Provider
	events   *Events
}

func NewGate(provider Provider, events *Events) *Gate {
	if events == nil {
		events = NewEvents()
	}
	return &Gate{provider: provider, events: events}
}

func (g *Gate) Events() *Events {
	return g.events
}

func (g *Gate) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	s, err := g.provider.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	g.signedIn(s)
	return s, nil
}

func (g *Gate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	g.signedIn(s)
	return s, nil
}

func (g *Gate) SignOut(ctx context.Context, token string) error {
	who, err := g.provider.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := g.provider.SignOut(ctx, token); err != nil {
		return err
	}
	g.events.Emit(Change{Identity: who, SignedIn: false})
	return nil
}

// Verify returns the identity behind token.
func (g *Gate) Verify(ctx context.Context, token string) (*models.Identity, error) {
	return g.provider.Verify(ctx, token)
}

func (g *Gate) signedIn(s *Session) {
	who := s.Identity
	g.events.Emit(Change{Identity: &who, SignedIn: true})
}
