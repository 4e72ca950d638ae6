package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kateder/internal/registry"
	"github.com/shrimpsizemoose/kateder/internal/store"
)

type Service struct {
	Config   *Config
	KV       store.KV
	Registry *registry.Registry
	Auth     *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	kv, err := NewKV(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	comparer, err := NewComparer(config.Auth.Comparer)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	reg := registry.New(kv)

	return &Service{
		Config:   config,
		KV:       kv,
		Registry: reg,
		Auth:     NewAuth(reg, comparer),
	}, nil
}

// Bootstrap restores the persisted session and optionally seeds demo data.
// Called once at startup, before the server starts taking requests.
func (s *Service) Bootstrap(ctx context.Context) error {
	session, err := s.Auth.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if session != nil {
		logger.Info.Printf("Restored session for %s (%s)", session.Email, session.Role)
	} else {
		logger.Debug.Printf("No persisted session, starting anonymous")
	}

	if s.Config.Server.SeedDemo {
		if err := s.Registry.SeedDemo(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	if err := s.Registry.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
