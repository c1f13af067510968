package application

import (
	"context"
	"strings"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/document"
)

// Config returns the agenda configuration. Only administrators may read it.
func (a *Agenda) Config(principal Principal) (cfg document.Config, err error) {
	if err = Authorize(principal, ViewConfig); err != nil {
		return
	}
	a.read(func(doc document.Document) {
		cfg = doc.Config
	})
	return
}

// SaveConfig overwrites the agenda configuration.
func (a *Agenda) SaveConfig(ctx context.Context, principal Principal, cfg document.Config) (saved document.Config, err error) {
	logger := a.loggerWith(ctx, "SaveConfig",
		"start", cfg.Start,
		"end", cfg.End,
		"step", cfg.Step,
	)
	defer func() {
		logOutcome(ctx, logger, err, "config saved")
	}()

	if err = Authorize(principal, ViewConfig); err != nil {
		return
	}

	normalized, vErr := validateConfig(cfg)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	err = a.mutate(ctx, func(doc *document.Document) error {
		doc.Config = normalized
		return nil
	})
	if err != nil {
		return
	}
	saved = normalized
	return
}

func validateConfig(cfg document.Config) (document.Config, *ValidationError) {
	vErr := &ValidationError{}
	out := document.Config{Step: cfg.Step}

	start, startErr := calendar.ParseClock(strings.TrimSpace(cfg.Start))
	if startErr != nil {
		vErr.add("start", "start must be HH:MM")
	} else {
		out.Start = calendar.FormatClock(start)
	}
	end, endErr := calendar.ParseClock(strings.TrimSpace(cfg.End))
	if endErr != nil {
		vErr.add("end", "end must be HH:MM")
	} else {
		out.End = calendar.FormatClock(end)
	}
	if startErr == nil && endErr == nil && start > end {
		vErr.add("end", "end must not be before start")
	}
	if cfg.Step <= 0 {
		vErr.add("step", "step must be a positive number of minutes")
	}
	return out, vErr
}
