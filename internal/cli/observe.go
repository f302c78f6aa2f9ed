package cli

import (
	"log/slog"
	"time"

	"github.com/AndreyAkinshin/devgenie/internal/history"
	"github.com/AndreyAkinshin/devgenie/internal/runner"
)

// multiObserver forwards results to several observers.
type multiObserver []runner.Observer

func (m multiObserver) ObserveBuild(r runner.BuildResult) {
	for _, o := range m {
		o.ObserveBuild(r)
	}
}

func (m multiObserver) ObserveTests(r runner.TestResult) {
	for _, o := range m {
		o.ObserveTests(r)
	}
}

// historyObserver appends every result to the history store.
type historyObserver struct {
	store  *history.Store
	logger *slog.Logger
}

func (h historyObserver) ObserveBuild(r runner.BuildResult) {
	h.append(history.FromBuild(r, time.Now().Add(-r.Duration)))
}

func (h historyObserver) ObserveTests(r runner.TestResult) {
	h.append(history.FromTests(r, time.Now().Add(-r.Elapsed)))
}

func (h historyObserver) append(rec history.Record) {
	if err := h.store.Append(rec); err != nil {
		h.logger.Warn("failed to record run", "run_id", rec.ID, "error", err)
	}
}

func (s *session) observer() runner.Observer {
	obs := multiObserver{s.recorder}
	if s.history != nil {
		obs = append(obs, historyObserver{store: s.history, logger: s.logger})
	}
	return obs
}
