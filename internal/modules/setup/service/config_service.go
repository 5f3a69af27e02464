package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/setup/domain"
	setupout "focustree/internal/modules/setup/port/out"
)

type ConfigService struct {
	store     setupout.ConfigStore
	suggester setupout.Suggester
	history   setupout.HistorySource
	log       hclog.Logger

	mu          sync.Mutex
	current     domain.Config
	loaded      bool
	subscribers []func(domain.Config)
}

func NewConfigService(store setupout.ConfigStore, suggester setupout.Suggester, history setupout.HistorySource, log hclog.Logger) *ConfigService {
	return &ConfigService{store: store, suggester: suggester, history: history, log: log}
}

func (s *ConfigService) Current(ctx context.Context) (domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current, nil
	}
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		s.log.Warn("stored session config is invalid, using defaults", "error", err)
		cfg = domain.Default()
	}
	s.current = cfg
	s.loaded = true
	return cfg, nil
}

func (s *ConfigService) Update(ctx context.Context, patch domain.Patch) (domain.Config, error) {
	base, err := s.Current(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	return s.replace(ctx, base.Apply(patch))
}

func (s *ConfigService) Set(ctx context.Context, key, value string) (domain.Config, error) {
	base, err := s.Current(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	patch, err := domain.ParsePatch(base, key, value)
	if err != nil {
		return domain.Config{}, err
	}
	return s.replace(ctx, base.Apply(patch))
}

func (s *ConfigService) Reset(ctx context.Context) (domain.Config, error) {
	return s.replace(ctx, domain.Default())
}

func (s *ConfigService) Subscribe(fn func(domain.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Watch follows external edits of the stored config until ctx is done.
func (s *ConfigService) Watch(ctx context.Context) error {
	return s.store.Watch(ctx, func(cfg domain.Config) {
		if err := cfg.Validate(); err != nil {
			s.log.Warn("ignoring invalid session config edit", "error", err)
			return
		}
		s.publish(cfg)
	})
}

// Suggest never fails because of the coach; the fallback suggestion is
// returned instead and the cause is logged.
func (s *ConfigService) Suggest(ctx context.Context, goal string) (domain.Suggestion, bool) {
	var history []domain.PastSession
	if s.history != nil {
		recent, err := s.history.Recent(ctx, domain.SuggestionHistory)
		if err != nil {
			s.log.Warn("load session history for suggestion", "error", err)
		}
		history = recent
	}
	if s.suggester == nil {
		return domain.FallbackSuggestion(), true
	}
	suggestion, err := s.suggester.Suggest(ctx, goal, history)
	if err != nil {
		s.log.Warn("session suggestion failed, using default", "error", err)
		return domain.FallbackSuggestion(), true
	}
	return suggestion, false
}

func (s *ConfigService) replace(ctx context.Context, cfg domain.Config) (domain.Config, error) {
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid session config: %w", err)
	}
	if err := s.store.Save(ctx, cfg); err != nil {
		return domain.Config{}, err
	}
	s.publish(cfg)
	return cfg, nil
}

func (s *ConfigService) publish(cfg domain.Config) {
	s.mu.Lock()
	s.current = cfg
	s.loaded = true
	subs := append([]func(domain.Config){}, s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(cfg)
	}
}
