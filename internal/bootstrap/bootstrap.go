// Package bootstrap decides, once per page load, whether the current
// user is already authenticated, and if not, attempts a single
// transparent login using the Telegram runtime's signed payload.
//
// The Telegram bridging script is injected by the host and may not
// have executed when our own code first runs. The coordinator absorbs
// that race with one bounded wait; the delay is a tunable compromise
// between responsiveness and race-avoidance, not a guarantee.
package bootstrap

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Paul1o1/rendojobs-frontend/internal/auth/token"
	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
)

// State is the coordinator's position in the login decision.
type State string

const (
	StateCheckingStoredCredential State = "checking_stored_credential"
	StateWaitingForRuntime        State = "waiting_for_runtime"
	StateRuntimeTimedOut          State = "runtime_timed_out"
	StatePayloadFound             State = "payload_found"
	StateVerifying                State = "verifying"
	StateVerifySucceeded          State = "verify_succeeded"
	StateVerifyFailed             State = "verify_failed"
	StateManualFallback           State = "manual_fallback"
	StateAuthenticated            State = "authenticated"
)

// TokenStorage is the single persistent credential slot (the
// localStorage analog). Injectable so the coordinator can be tested
// with a fake.
type TokenStorage interface {
	Get() string
	Set(token string)
	Clear()
}

// Runtime probes the Telegram host bridge. InitData returns "" while
// the bridge has not initialized, or when running outside the host.
type Runtime interface {
	InitData() string
}

// Verifier exchanges a signed payload for a session token.
type Verifier interface {
	Verify(ctx context.Context, initData string) (string, error)
}

// Navigator performs route transitions.
type Navigator interface {
	NavigateTo(route string)
}

type Config struct {
	// RuntimeWait bounds how long to wait for the Telegram bridge
	// before concluding it is absent.
	RuntimeWait time.Duration

	LoginRoute    string
	RegisterRoute string
	HomeRoute     string

	// PublicRoutes are never force-redirected when no payload shows
	// up: unauthenticated visitors may browse them. "/" matches
	// exactly, other entries match by prefix.
	PublicRoutes []string
}

func DefaultConfig() Config {
	return Config{
		RuntimeWait:   300 * time.Millisecond,
		LoginRoute:    "/login",
		RegisterRoute: "/register",
		HomeRoute:     "/dashboard",
		PublicRoutes:  []string{"/", "/role"},
	}
}

// Coordinator runs the login decision exactly once. A second Run call
// returns the already-reached state with no further side effects;
// navigating to a new page means constructing a new Coordinator.
type Coordinator struct {
	storage  TokenStorage
	runtime  Runtime
	verifier Verifier
	nav      Navigator
	clock    clock.Clock
	cfg      Config

	mu      sync.Mutex
	ran     bool
	state   State
	history []State
}

func New(
	storage TokenStorage,
	runtime Runtime,
	verifier Verifier,
	nav Navigator,
	clk clock.Clock,
	cfg Config,
) *Coordinator {
	if cfg.RuntimeWait == 0 {
		cfg.RuntimeWait = DefaultConfig().RuntimeWait
	}
	return &Coordinator{
		storage:  storage,
		runtime:  runtime,
		verifier: verifier,
		nav:      nav,
		clock:    clk,
		cfg:      cfg,
	}
}

// Run executes the state machine for the given current route and
// returns the terminal state. It performs at most one network
// verification call. Cancelling ctx abandons the run: in-flight
// results are discarded, never applied late.
func (c *Coordinator) Run(ctx context.Context, route string) State {
	c.mu.Lock()
	if c.ran {
		s := c.state
		c.mu.Unlock()
		return s
	}
	c.ran = true
	c.mu.Unlock()

	c.setState(StateCheckingStoredCredential)

	// A stored credential short-circuits everything: no network call,
	// no redirect. Expiry is peeked locally so a plainly dead token
	// does not masquerade as a login.
	if stored := c.storage.Get(); stored != "" {
		exp, err := token.PeekExpiry(stored)
		if err == nil && exp.After(c.clock.Now()) {
			return c.setState(StateAuthenticated)
		}
		c.storage.Clear()
	}

	// Manual login and registration routes must never be
	// auto-redirected away from.
	if routeWithin(route, c.cfg.LoginRoute) ||
		routeWithin(route, c.cfg.RegisterRoute) {
		return c.setState(StateManualFallback)
	}

	c.setState(StateWaitingForRuntime)
	c.clock.Sleep(ctx, c.cfg.RuntimeWait)
	if ctx.Err() != nil {
		return c.currentState()
	}

	initData := c.runtime.InitData()
	if initData == "" {
		c.setState(StateRuntimeTimedOut)
		// An absent payload is ambiguous: slow bridge, or genuinely
		// outside Telegram. Public routes stay browsable; protected
		// routes fall back to manual login.
		if c.isPublic(route) {
			return c.currentState()
		}
		c.nav.NavigateTo(c.cfg.LoginRoute)
		return c.setState(StateManualFallback)
	}

	c.setState(StatePayloadFound)
	c.setState(StateVerifying)

	sessionToken, err := c.verifier.Verify(ctx, initData)
	if ctx.Err() != nil {
		// Superseded by navigation; discard the result either way.
		return c.currentState()
	}
	if err != nil {
		// A confirmed rejection cannot succeed on retry; go manual.
		c.setState(StateVerifyFailed)
		c.nav.NavigateTo(c.cfg.LoginRoute)
		return c.currentState()
	}

	c.storage.Set(sessionToken)
	c.setState(StateVerifySucceeded)
	c.nav.NavigateTo(c.cfg.HomeRoute)
	return c.currentState()
}

// State returns the most recently reached state.
func (c *Coordinator) State() State {
	return c.currentState()
}

// History returns every state reached, in order. Diagnostic aid; the
// original shipped a debug overlay for exactly this.
func (c *Coordinator) History() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Coordinator) setState(s State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.history = append(c.history, s)
	return s
}

func (c *Coordinator) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) isPublic(route string) bool {
	for _, p := range c.cfg.PublicRoutes {
		if p == "/" {
			if route == "/" {
				return true
			}
			continue
		}
		if routeWithin(route, p) {
			return true
		}
	}
	return false
}

// routeWithin matches base itself and paths under it, on path-segment
// boundaries: "/role" covers "/role" and "/role/employer" but not
// "/rolex".
func routeWithin(route, base string) bool {
	return route == base || strings.HasPrefix(route, base+"/")
}
