package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/learnsphere"
)

// State is the gate lifecycle state
type State int

const (
	StateInit State = iota
	StateBootstrapping
	StateAuthenticated
	StateUnauthenticated
)

var stateNames = [...]string{"INIT", "BOOTSTRAPPING", "AUTHENTICATED", "UNAUTHENTICATED"}

// String returns state name
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Action is what a protected route should do
type Action int

const (
	ActionLoading Action = iota
	ActionRender
	ActionRedirect
)

// Decision is the outcome of a route evaluation
type Decision struct {
	Action Action
	// Route is set for ActionRedirect
	Route string
	// Err is a transient bootstrap failure, e.g. network, rendered alongside content
	Err error
}

// Bootstrapper answers "who am I" with whatever credential is held.
type Bootstrapper interface {
	Me(ctx context.Context) (*learnsphere.User, error)
}

// Navigator moves the caller to another route
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

// Navigate calls f(route)
func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// RevokeFunc tells the server to invalidate the renewal credential
type RevokeFunc func(ctx context.Context) error

// Gate decides protected route access and follows the session through its lifecycle:
// INIT -> BOOTSTRAPPING -> {AUTHENTICATED, UNAUTHENTICATED}.
type Gate struct {
	mux           sync.Mutex
	state         State
	transient     error
	store         *Store
	bootstrapper  Bootstrapper
	navigator     Navigator
	revoke        RevokeFunc
	loginRoute    string
	revokeTimeout time.Duration
	logger        learnsphere.Logger
	unsubscribe   func()
	pending       sync.WaitGroup
}

// GateOption mutates Gate
type GateOption func(g *Gate)

// WithNavigator sets navigator used for login redirects
func WithNavigator(navigator Navigator) GateOption {
	return func(g *Gate) {
		g.navigator = navigator
	}
}

// WithRevoke sets the server side logout call
func WithRevoke(revoke RevokeFunc) GateOption {
	return func(g *Gate) {
		g.revoke = revoke
	}
}

// WithLoginRoute overrides the login route
func WithLoginRoute(route string) GateOption {
	return func(g *Gate) {
		if route != "" {
			g.loginRoute = route
		}
	}
}

// WithGateLogger sets logger
func WithGateLogger(logger learnsphere.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// State returns current state
func (g *Gate) State() State {
	g.mux.Lock()
	defer g.mux.Unlock()
	return g.state
}

// Bootstrap issues the "who am I" call and settles the gate.
// An authentication failure ends the session; any other failure keeps the current belief and is reported as transient.
func (g *Gate) Bootstrap(ctx context.Context) error {
	g.mux.Lock()
	g.state = StateBootstrapping
	g.transient = nil
	g.mux.Unlock()

	user, err := g.bootstrapper.Me(ctx)
	switch {
	case err == nil:
		g.store.Confirm(user)
		g.settle(StateAuthenticated, nil)
		return nil
	case learnsphere.IsUnauthorized(err):
		g.store.Clear()
		g.settle(StateUnauthenticated, nil)
		return err
	default:
		g.logger.Infof("session bootstrap failed, keeping current session: %v", err)
		if g.store.IsAuthenticated() {
			g.settle(StateAuthenticated, err)
		} else {
			g.settle(StateUnauthenticated, err)
		}
		return err
	}
}

// Decide evaluates a protected route; it never redirects while bootstrap or a renewal is pending.
func (g *Gate) Decide() Decision {
	g.mux.Lock()
	state, transient := g.state, g.transient
	g.mux.Unlock()
	switch {
	case state == StateInit, state == StateBootstrapping, g.store.Renewing():
		return Decision{Action: ActionLoading}
	case state == StateUnauthenticated, !g.store.IsAuthenticated():
		return Decision{Action: ActionRedirect, Route: g.loginRoute, Err: transient}
	}
	return Decision{Action: ActionRender, Err: transient}
}

// Render bootstraps when needed and then decides, as a protected render would.
func (g *Gate) Render(ctx context.Context) Decision {
	if g.State() == StateInit {
		_ = g.Bootstrap(ctx)
	}
	return g.Decide()
}

// Logout clears the session synchronously, navigates to login and revokes server side in the background.
func (g *Gate) Logout(ctx context.Context) {
	g.mux.Lock()
	g.state = StateUnauthenticated
	g.transient = nil
	g.mux.Unlock()
	g.store.Clear()
	g.navigate()
	if g.revoke == nil {
		return
	}
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		revokeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.revokeTimeout)
		defer cancel()
		if err := g.revoke(revokeCtx); err != nil {
			g.logger.Errorf("failed to revoke renewal credential: %v", err)
		}
	}()
}

// Close detaches the gate from the store and waits for background revocations
func (g *Gate) Close() {
	g.unsubscribe()
	g.pending.Wait()
}

func (g *Gate) settle(state State, transient error) {
	g.mux.Lock()
	g.state = state
	g.transient = transient
	g.mux.Unlock()
}

func (g *Gate) onStoreEvent(event Event, _ Session) {
	switch event {
	case EventCleared:
		g.mux.Lock()
		wasAuthenticated := g.state == StateAuthenticated
		if wasAuthenticated {
			g.state = StateUnauthenticated
			g.transient = nil
		}
		g.mux.Unlock()
		if wasAuthenticated {
			g.navigate()
		}
	case EventCredential:
		g.mux.Lock()
		if g.state == StateUnauthenticated {
			// a fresh login re-enters bootstrapping on the next protected render
			g.state = StateInit
		}
		g.mux.Unlock()
	}
}

func (g *Gate) navigate() {
	if g.navigator != nil {
		g.navigator.Navigate(g.loginRoute)
	}
}

// NewGate creates a Gate over store
func NewGate(store *Store, bootstrapper Bootstrapper, options ...GateOption) *Gate {
	ret := &Gate{
		store:         store,
		bootstrapper:  bootstrapper,
		loginRoute:    learnsphere.LoginRoute,
		revokeTimeout: 10 * time.Second,
		logger:        learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.unsubscribe = store.Subscribe(ret.onStoreEvent)
	return ret
}
