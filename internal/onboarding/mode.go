package onboarding

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Toshiki-Isokawa/Trainora/internal/models"
)

type ModeKind string

const (
	ModeProbing ModeKind = "probing"
	ModeCreate  ModeKind = "create"
	ModeEdit    ModeKind = "edit"
)

// Mode is the resolved onboarding mode. Profile and Raw are set only for
// ModeEdit; Raw carries the probe response body untouched.
type Mode struct {
	Kind    ModeKind
	Profile *models.RemoteProfile
	Raw     json.RawMessage
}

// ProfileProber fetches the remote profile for a user. found=false with a nil
// error means the backend answered 404 (no profile yet).
type ProfileProber interface {
	FetchProfile(ctx context.Context, userID string) (profile *models.RemoteProfile, raw json.RawMessage, found bool, err error)
}

// Resolver decides between create and edit mode with a single probe of the
// remote profile endpoint. The result is terminal: repeated Resolve calls
// return the first outcome without probing again. Probe failures other than
// 404 fall open to create mode.
type Resolver struct {
	prober ProfileProber

	once sync.Once
	mode Mode
}

func NewResolver(prober ProfileProber) *Resolver {
	return &Resolver{
		prober: prober,
		mode:   Mode{Kind: ModeProbing},
	}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) Mode {
	r.once.Do(func() {
		profile, raw, found, err := r.prober.FetchProfile(ctx, userID)
		switch {
		case err != nil:
			logrus.WithError(err).WithField("user_id", userID).
				Warn("profile probe failed, falling back to create mode")
			r.mode = Mode{Kind: ModeCreate}
		case !found:
			r.mode = Mode{Kind: ModeCreate}
		default:
			r.mode = Mode{Kind: ModeEdit, Profile: profile, Raw: raw}
		}
	})
	return r.mode
}

// Mode returns the current state without triggering a probe; ModeProbing
// until Resolve has run.
func (r *Resolver) Mode() Mode {
	return r.mode
}
