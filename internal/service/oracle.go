// FILE: internal/service/oracle.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"cortex/internal/oracle"
	"cortex/internal/storage"
)

// oracleHolder lets settings swap the oracle client under running sessions
type oracleHolder struct {
	mu   sync.RWMutex
	cfg  oracle.Config
	curr *oracle.Client
}

func newOracleHolder(cfg oracle.Config) *oracleHolder {
	return &oracleHolder{cfg: cfg, curr: oracle.New(cfg)}
}

func (h *oracleHolder) client() *oracle.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.curr
}

// Ask forwards to the current client
func (h *oracleHolder) Ask(ctx context.Context, prompt string) (string, error) {
	return h.client().Ask(ctx, prompt)
}

// update swaps in a client for provider. An empty apiKey keeps the current
// key. save runs under the lock so stored and live settings never diverge.
func (h *oracleHolder) update(provider oracle.Provider, apiKey string, save func(oracle.Config) error) (oracle.Config, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg := h.cfg
	if provider != cfg.Provider {
		// Endpoint list and base URL belong to the old provider
		cfg.BaseURL = ""
		cfg.Endpoints = nil
	}
	cfg.Provider = provider
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if save != nil {
		if err := save(cfg); err != nil {
			return h.cfg, err
		}
	}
	h.cfg = cfg
	h.curr = oracle.New(cfg)
	return cfg, nil
}

func loadOracleSettings(store *storage.Store, cfg *oracle.Config) error {
	if v, ok, err := store.GetSetting(storage.SettingProvider); err != nil {
		return err
	} else if ok {
		p, err := oracle.ParseProvider(v)
		if err != nil {
			return err
		}
		if p != cfg.Provider {
			cfg.BaseURL = ""
			cfg.Endpoints = nil
		}
		cfg.Provider = p
	}
	// An empty stored key leaves the configured one in place
	if v, ok, err := store.GetSetting(storage.SettingAPIKey); err != nil {
		return err
	} else if ok && v != "" {
		cfg.APIKey = v
	}
	return nil
}

// UpdateSettings switches provider and key. An empty key keeps the current one.
func (s *Service) UpdateSettings(providerName, apiKey string) error {
	provider, err := oracle.ParseProvider(providerName)
	if err != nil {
		return err
	}

	var save func(oracle.Config) error
	if s.store != nil {
		save = func(cfg oracle.Config) error {
			if err := s.store.SetSetting(storage.SettingProvider, string(cfg.Provider)); err != nil {
				return fmt.Errorf("save provider: %w", err)
			}
			if err := s.store.SetSetting(storage.SettingAPIKey, cfg.APIKey); err != nil {
				return fmt.Errorf("save api key: %w", err)
			}
			return nil
		}
	}
	cfg, err := s.oracle.update(provider, strings.TrimSpace(apiKey), save)
	if err != nil {
		return err
	}

	log.Info().Str("provider", string(provider)).Bool("key", cfg.APIKey != "").Msg("Oracle settings updated")
	return nil
}

// Chat sends a free-form message through the oracle with no fallback
func (s *Service) Chat(ctx context.Context, message string) (string, oracle.Provider, error) {
	c := s.oracle.client()
	reply, err := c.Ask(ctx, message)
	if err != nil {
		return "", c.Provider(), err
	}
	return strings.TrimSpace(reply), c.Provider(), nil
}
