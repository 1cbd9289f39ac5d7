package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lidayx/lumina-sub000/internal/logging"
	"github.com/lidayx/lumina-sub000/internal/manager"
	"github.com/lidayx/lumina-sub000/internal/store"
	"github.com/lidayx/lumina-sub000/pkg/appindex"
	"github.com/lidayx/lumina-sub000/pkg/bookmark"
	"github.com/lidayx/lumina-sub000/pkg/feature"
	"github.com/lidayx/lumina-sub000/pkg/launcher"
)

// app bundles the wired components behind one construction call. Components
// are built once at process start and passed by reference; nothing here is a
// package-level singleton.
type app struct {
	settings  manager.Settings
	logger    zerolog.Logger
	store     *store.Store
	apps      *appindex.Service
	bookmarks *bookmark.Service
	orch      *launcher.Orchestrator
}

func buildApp() (*app, error) {
	settings := manager.Config.Settings()
	logger := logging.New(settings.LogLevel)

	st, err := store.Open(settings.StorePath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	apps := appindex.NewService(st, logger)
	bookmarks := bookmark.NewService(st, logger)

	resolvers, calc := feature.DefaultChain(st, settings.TargetLang)
	registry := feature.NewRegistry(resolvers, calc)

	orch := launcher.NewOrchestrator(launcher.Deps{
		Alias:     launcher.StaticAliases(settings.Aliases),
		Registry:  registry,
		Apps:      apps,
		Bookmarks: bookmarks,
		Files:     launcher.NewWalkFileSearcher(settings.FileRoots),
		Web:       launcher.NewSuggestSearcher(),
		Clipboard: launcher.NewCliphistClipboard(),
		Commands:  launcher.NewPathCommandService(),
		Browsers:  settings.Browsers,
		Bands:     settings.Bands,
	}, logger)

	return &app{
		settings:  settings,
		logger:    logger,
		store:     st,
		apps:      apps,
		bookmarks: bookmarks,
		orch:      orch,
	}, nil
}

func (a *app) close() {
	a.bookmarks.StopWatching()
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing store")
	}
}
