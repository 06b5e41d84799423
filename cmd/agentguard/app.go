package main

import (
	"os"

	"github.com/agentguard/agentguard/internal/audit"
	agentconfig "github.com/agentguard/agentguard/internal/config"
	"github.com/agentguard/agentguard/internal/doctor"
	"github.com/agentguard/agentguard/internal/engine"
	"github.com/agentguard/agentguard/internal/hookadapters"
	"github.com/agentguard/agentguard/internal/registry"
	"github.com/agentguard/agentguard/internal/threatintel"
)

// App wires the engine and its collaborators from the on-disk state
// directory, mirroring the teacher's app.Service construction-on-demand
// pattern in internal/app/service.go.
type App struct {
	Config       agentconfig.Config
	ConfigPath   string
	RegistryPath string
	AuditPath    string

	Registry *registry.Store
	Engine   *engine.Engine
	Adapters *hookadapters.Registry
	Doctor   *doctor.Service
}

// NewApp loads config.json (creating it with defaults if absent), opens the
// trust registry, and constructs the Action Scanner. configPath overrides
// the default AGENTGUARD_HOME/config.json location.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = agentconfig.ConfigPath()
	}
	cfg, err := agentconfig.Ensure(configPath)
	if err != nil {
		return nil, err
	}

	regPath := agentconfig.RegistryPath()
	reg, err := registry.Open(regPath)
	if err != nil {
		return nil, err
	}

	auditPath := agentconfig.AuditPath()
	auditLog := audit.New(auditPath)

	intelCfg := threatintel.ConfigFromEnv(os.Getenv)
	intel := threatintel.New(intelCfg, "")

	adapters := hookadapters.DefaultRegistry()

	eng := engine.New(reg, intel, auditLog)

	return &App{
		Config:       cfg,
		ConfigPath:   configPath,
		RegistryPath: regPath,
		AuditPath:    auditPath,
		Registry:     reg,
		Engine:       eng,
		Adapters:     adapters,
		Doctor: &doctor.Service{
			ConfigPath:   configPath,
			RegistryPath: regPath,
			AuditPath:    auditPath,
			IntelConfig:  intelCfg,
		},
	}, nil
}
