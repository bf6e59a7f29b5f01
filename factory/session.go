package factory

import (
	"sync"

	"github.com/openweb3-io/xcbridge/bridge"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/confirm"
	"github.com/openweb3-io/xcbridge/journal"
	"go.uber.org/zap"
)

// Session owns both endpoints of a bridge. Close releases them.
type Session struct {
	Source  xclient.Chain
	Target  xclient.Chain
	Journal journal.Journal

	tracker   *confirm.Tracker
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Tracker() *confirm.Tracker {
	return s.tracker
}

// Orchestrator builds an orchestrator over the session's endpoints.
func (s *Session) Orchestrator(opts ...bridge.Option) *bridge.Orchestrator {
	base := []bridge.Option{
		bridge.WithTracker(s.tracker),
		bridge.WithLogger(s.logger),
	}
	if s.Journal != nil {
		base = append(base, bridge.WithJournal(s.Journal))
	}
	return bridge.NewOrchestrator(s.Source, s.Target, append(base, opts...)...)
}

// Chains lists source then target.
func (s *Session) Chains() []xclient.Chain {
	return []xclient.Chain{s.Source, s.Target}
}

// Close releases both endpoints and the journal. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		for _, chain := range s.Chains() {
			if err := chain.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		if s.Journal != nil {
			if err := s.Journal.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		s.logger.Debug("session closed")
	})
	return s.closeErr
}
