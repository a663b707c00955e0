package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/config"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/netcheck"
	"github.com/five82/kart/internal/prefs"
	"github.com/five82/kart/internal/share"
	"github.com/five82/kart/internal/state"
	"github.com/five82/kart/internal/ui"
)

// Options configure the kart application.
type Options struct {
	ConfigPath string
	PrefsPath  string    // empty uses default ~/.config/kart/prefs.toml
	Stdout     io.Writer // receives shared text for the stdout and both targets; nil means os.Stdout
}

// Run boots the kart TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	session := uuid.NewString()
	log, closer, err := logging.Setup(logging.Options{
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Fields: logrus.Fields{"session": session},
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	log.WithFields(logrus.Fields{
		"base_url":     cfg.BaseURL,
		"connectivity": cfg.Connectivity.Mode,
		"location":     cfg.Location.Mode,
		"share":        cfg.Share.Target,
	}).Info("kart starting")

	// Shared text is held until the alternate screen is gone.
	var shared bytes.Buffer
	msgs := messages.New(cfg.Messages)
	store, err := newStore(cfg, msgs, &shared, log)
	if err != nil {
		return err
	}
	defer store.Close()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	var refresherDone <-chan struct{}
	if cfg.RefreshInterval > 0 {
		refresherDone = StartRefresher(refreshCtx, store, cfg.RefreshInterval, log)
	}

	uiErr := ui.Run(ui.Options{
		Context:     ctx,
		Store:       store,
		Messages:    msgs,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
		LogPath:     cfg.LogFile,
		ShareNotice: msgs(shareNotice(cfg.Share)),
		Log:         log,
	})

	cancelRefresh()
	if refresherDone != nil {
		<-refresherDone
	}

	if shared.Len() > 0 {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := io.Copy(out, &shared); err != nil {
			log.WithError(err).Warn("write shared text")
		}
	}

	log.Info("kart stopped")
	// A cancelled context (SIGINT/SIGTERM) is a normal exit.
	if uiErr != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", uiErr)
	}
	return nil
}

// newStore wires the catalog client, connectivity probe, location resolver
// and share target described by cfg into a state store. Text shared to
// stdout is written to sharedOut.
func newStore(cfg config.Config, msgs messages.Lookup, sharedOut io.Writer, log *logrus.Entry) (*state.Store, error) {
	client, err := catalog.NewClient(cfg.BaseURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithRateLimit(cfg.RequestsPerSecond, 2),
		catalog.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	log.WithField("catalog", client.BaseURL()).Debug("catalog client ready")

	checker, err := newChecker(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := state.New(state.Deps{
		Catalog:      client,
		Connectivity: checker,
		Messages:     msgs,
		Locator:      newLocator(cfg.Location, msgs, log),
		Sharer:       newSharer(cfg.Share, sharedOut),
		Log:          log,
	})
	if err != nil {
		return nil, fmt.Errorf("init state store: %w", err)
	}
	return store, nil
}

func newChecker(cfg config.Config, log *logrus.Entry) (netcheck.Checker, error) {
	if cfg.Connectivity.Mode == "assume-online" {
		return netcheck.Static(true), nil
	}
	d, err := netcheck.NewDialer(cfg.BaseURL, cfg.Connectivity.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init connectivity probe: %w", err)
	}
	log.WithField("addr", d.Addr()).Debug("connectivity probe ready")
	return d, nil
}

func newLocator(cfg config.Location, msgs messages.Lookup, log *logrus.Entry) *location.Resolver {
	hc := &http.Client{Timeout: cfg.Timeout}

	var provider location.Provider
	switch cfg.Mode {
	case "static":
		provider = location.StaticProvider{Coordinates: location.Coordinates{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}}
	case "ip":
		provider = location.IPProvider{URL: cfg.LookupURL, Client: hc}
	default:
		provider = location.NoProvider{}
	}

	var geocoder location.Geocoder
	if cfg.Mode != "none" {
		geocoder = location.HTTPGeocoder{URL: cfg.GeocodeURL, Client: hc}
	}

	return location.NewResolver(location.Options{
		Provider: provider,
		Geocoder: geocoder,
		Timeout:  cfg.Timeout,
		Messages: msgs,
		Log:      log,
	})
}

func newSharer(cfg config.Share, out io.Writer) share.Sharer {
	switch cfg.Target {
	case "stdout":
		return share.NewWriter(out)
	case "both":
		return share.Multi{share.Clipboard{}, share.NewWriter(out)}
	default:
		return share.Clipboard{}
	}
}

// shareNotice picks the message shown after a successful share.
func shareNotice(cfg config.Share) messages.Key {
	if cfg.Target == "stdout" {
		return messages.SharePrinted
	}
	return messages.ShareCopied
}
