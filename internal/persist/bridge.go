package persist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

// State is the bridge's remote-write state machine:
// Idle -> Scheduled -> Sending -> (Idle | Backoff).
type State int32

const (
	StateIdle State = iota
	StateScheduled
	StateSending
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateSending:
		return "sending"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Local is the synchronous durable storage the bridge writes through on
// every mutation.
type Local interface {
	Set(ctx context.Context, key string, data []byte) error
}

// EventPublisher receives a notification after each successful remote
// write. Optional; nil disables event publishing.
type EventPublisher interface {
	SnapshotSynced(ctx context.Context, uid, signature string) error
}

// Config wires a Bridge.
type Config struct {
	// Key is the namespace for the local snapshot blob.
	Key string

	// Debounce is the quiet period before a remote write (~1.5s); the
	// timer resets on every new mutation so only the latest state goes
	// out.
	Debounce time.Duration

	// Backoff is how long remote writes are skipped after a failure
	// (~60s), to avoid hammering a failing store.
	Backoff time.Duration

	Local  Local
	Remote Remote
	Events EventPublisher

	// Adopt installs a validated remote snapshot as current state on
	// hydration. It must not re-trigger the bridge.
	Adopt func(core.YearData)

	Logger *applog.Logger
}

// Bridge keeps the in-memory aggregate durable without blocking the
// caller: synchronous best-effort local writes on every mutation, plus a
// debounced write-through to the remote document store once an identity
// is attached.
type Bridge struct {
	key      string
	debounce time.Duration
	backoff  time.Duration

	local  Local
	remote Remote
	events EventPublisher
	adopt  func(core.YearData)
	log    *applog.Logger

	mu            sync.Mutex
	uid           string
	email         string
	canSync       bool
	syncing       bool
	state         State
	timer         *time.Timer
	pending       []byte
	lastSig       string
	cooldownUntil time.Time

	now func() time.Time
}

func NewBridge(cfg Config) *Bridge {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Bridge{
		key:      cfg.Key,
		debounce: cfg.Debounce,
		backoff:  cfg.Backoff,
		local:    cfg.Local,
		remote:   cfg.Remote,
		events:   cfg.Events,
		adopt:    cfg.Adopt,
		log:      logger.WithComponent(applog.ComponentPersist),
		now:      time.Now,
	}
}

// OnMutation is the store's change hook: persist locally right away,
// then (re)arm the debounced remote write.
func (b *Bridge) OnMutation(y core.YearData) {
	data, err := json.Marshal(y)
	if err != nil {
		b.log.Error("marshal snapshot", applog.FieldError, err.Error())
		return
	}

	// Local copy is synchronous and best-effort; a full disk or locked
	// file must never surface to the user.
	if b.local != nil {
		if err := b.local.Set(context.Background(), b.key, data); err != nil {
			b.log.Debug("local write failed", applog.FieldError, err.Error())
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = data

	if b.remote == nil || b.uid == "" || !b.canSync || b.syncing {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.state = StateScheduled
	b.timer = time.AfterFunc(b.debounce, b.fire)
}

func (b *Bridge) fire() {
	b.mu.Lock()
	data := b.pending
	b.timer = nil
	b.mu.Unlock()
	_ = b.send(context.Background(), data)
}

// send pushes one snapshot to the remote store, honoring the backoff
// window and the duplicate-signature skip.
func (b *Bridge) send(ctx context.Context, data []byte) error {
	if data == nil {
		return nil
	}
	b.mu.Lock()
	uid, email := b.uid, b.email
	if b.remote == nil || uid == "" {
		b.state = StateIdle
		b.mu.Unlock()
		return nil
	}
	if b.now().Before(b.cooldownUntil) {
		b.state = StateBackoff
		b.mu.Unlock()
		b.log.Debug("remote write skipped during backoff window")
		return nil
	}
	sig := signature(data)
	if sig == b.lastSig {
		b.state = StateIdle
		b.mu.Unlock()
		return nil
	}
	b.state = StateSending
	b.mu.Unlock()

	err := b.remote.Save(ctx, uid, data, email)

	b.mu.Lock()
	if err != nil {
		b.cooldownUntil = b.now().Add(b.backoff)
		b.state = StateBackoff
		b.mu.Unlock()
		b.log.Warn("remote write failed, backing off",
			applog.FieldError, err.Error(),
			applog.FieldUserID, uid)
		return err
	}
	b.lastSig = sig
	b.state = StateIdle
	b.mu.Unlock()

	b.log.Debug("snapshot written to remote store",
		applog.FieldOperation, applog.OpSave,
		applog.FieldUserID, uid,
		applog.FieldSignature, sig[:12])

	if b.events != nil {
		if err := b.events.SnapshotSynced(ctx, uid, sig); err != nil {
			b.log.Debug("sync event publish failed", applog.FieldError, err.Error())
		}
	}
	return nil
}

// Flush bypasses the debounce and forces an immediate remote write of
// the latest snapshot. Used before session teardown; the backoff window
// and duplicate skip still apply.
func (b *Bridge) Flush(ctx context.Context) error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	data := b.pending
	b.mu.Unlock()
	return b.send(ctx, data)
}

// SetIdentity handles an authentication transition. A non-empty uid
// triggers the once-per-sign-in remote hydration: a well-formed remote
// snapshot overwrites local state (through Adopt), a malformed or
// missing one leaves local state alone. Write-through stays disabled
// until hydration has finished so the just-applied snapshot cannot
// bounce straight back to the remote store. An empty uid detaches the
// identity and stops remote writes.
func (b *Bridge) SetIdentity(ctx context.Context, uid, email string) error {
	b.mu.Lock()
	b.uid, b.email = uid, email
	b.canSync = false
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.state = StateIdle
	b.mu.Unlock()

	if uid == "" || b.remote == nil {
		return nil
	}

	data, err := b.remote.Load(ctx, uid)
	if err != nil {
		// Keep local state and leave write-through off; the next
		// sign-in retries hydration.
		b.log.Warn("remote hydration failed, staying local-only",
			applog.FieldError, err.Error(),
			applog.FieldUserID, uid)
		return fmt.Errorf("hydrate remote snapshot: %w", err)
	}

	if data != nil {
		b.adoptRemote(ctx, uid, data)
	}

	b.mu.Lock()
	b.canSync = true
	b.mu.Unlock()
	return nil
}

func (b *Bridge) adoptRemote(ctx context.Context, uid string, data []byte) {
	var y core.YearData
	if err := json.Unmarshal(data, &y); err != nil {
		b.log.Warn("rejecting unreadable remote snapshot, keeping local",
			applog.FieldError, err.Error(), applog.FieldUserID, uid)
		return
	}
	if err := core.ValidateSnapshot(y); err != nil {
		b.log.Warn("rejecting malformed remote snapshot, keeping local",
			applog.FieldError, err.Error(), applog.FieldUserID, uid)
		return
	}

	if dropped := core.ReconcileRefs(&y); dropped > 0 {
		b.log.Info("reconciled dangling schedule references", "dropped", dropped)
	}

	b.mu.Lock()
	b.syncing = true
	b.mu.Unlock()

	if b.adopt != nil {
		b.adopt(y)
	}

	canonical, err := json.Marshal(y)
	if err == nil {
		if b.local != nil {
			if err := b.local.Set(ctx, b.key, canonical); err != nil {
				b.log.Debug("local write failed", applog.FieldError, err.Error())
			}
		}
		b.mu.Lock()
		b.pending = canonical
		b.lastSig = signature(canonical)
		b.mu.Unlock()
	}

	b.mu.Lock()
	b.syncing = false
	b.mu.Unlock()

	b.log.Info("hydrated from remote snapshot",
		applog.FieldOperation, applog.OpHydrate,
		applog.FieldUserID, uid,
		applog.FieldYear, y.Year)
}

// State reports the current remote-write state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close stops any armed debounce timer. It does not flush.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func signature(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
