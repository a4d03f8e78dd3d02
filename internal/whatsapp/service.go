package whatsapp

import (
	"context"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*Service)

func WithSleeper(sleep Sleeper) Option {
	return func(s *Service) { s.sleep = sleep }
}

// WithRandom replaces the source of the inter-group delays. n is the
// exclusive upper bound.
func WithRandom(int64n func(n int64) int64) Option {
	return func(s *Service) { s.int64n = int64n }
}

func WithPhotoReader(read func(path string) ([]byte, error)) Option {
	return func(s *Service) { s.readPhoto = read }
}

type CampaignConfig struct {
	PhotoPath   string
	SettleDelay time.Duration
}

func WithCampaign(cfg CampaignConfig) Option {
	return func(s *Service) { s.campaign = cfg }
}

// Service runs every messaging workflow against the shared session. Public
// operations hold the session lock for their whole duration so batch
// ordering and settle delays are never interleaved with other requests.
type Service struct {
	Session Session
	log     *zap.Logger

	mu sync.Mutex

	sleep     Sleeper
	int64n    func(n int64) int64
	readPhoto func(path string) ([]byte, error)
	campaign  CampaignConfig
}

func NewService(session Session, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		Session:   session,
		log:       log,
		sleep:     sleepContext,
		int64n:    rand.Int64N,
		readPhoto: os.ReadFile,
		campaign:  CampaignConfig{SettleDelay: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// --- SESSION ---

func (s *Service) ListContacts(ctx context.Context) ([]models.Contact, error) {
	defer s.lock()()
	return s.Session.Contacts(ctx)
}

func (s *Service) Connected() bool {
	return s.Session.Connected()
}

func (s *Service) QRCode() (string, bool) {
	return s.Session.QRCode()
}

func (s *Service) Logout(ctx context.Context) error {
	defer s.lock()()
	return s.Session.Logout(ctx)
}
