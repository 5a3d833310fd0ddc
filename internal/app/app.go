package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/roamly/roamly/internal/booking"
	"github.com/roamly/roamly/internal/catalog"
	"github.com/roamly/roamly/internal/config"
	"github.com/roamly/roamly/internal/event"
	"github.com/roamly/roamly/internal/idgen/simple"
	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/migration"
	"github.com/roamly/roamly/internal/state"
	"github.com/roamly/roamly/internal/storage/kv"
	"github.com/roamly/roamly/internal/transport/web"
)

const (
	bookingMirrorKey  = "bookings"
	shutdownTimeout   = 4 * time.Second
	readHeaderTimeout = 20
)

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l.SetLevel(cfg.LogLevel)

	//nolint:exhaustruct
	store, err := kv.New(kv.Config{L: l, DataDir: cfg.DataDir})
	if err != nil {
		return fmt.Errorf("init kv store: %w", err)
	}

	if err := migration.Up(ctx, l, store); err != nil {
		return fmt.Errorf("up storage migration: %w", err)
	}

	destinations := catalog.NewDestinations(catalog.Config{L: l})
	packages := catalog.NewPackages(catalog.Config{L: l})

	bus := event.NewBus(l)
	defer func() {
		if err := bus.Close(); err != nil {
			l.LogErrorf("Failed to close event bus: %v", err.Error())
		}
	}()

	bookManager := booking.New(l, destinations, packages, simple.New(), bus)
	stateStore := state.NewStore(l)

	if err := runBookingMirror(ctx, l, bus, bookManager, store); err != nil {
		return fmt.Errorf("start booking mirror: %w", err)
	}

	srv := web.New(
		web.Conf{
			L:                 l,
			Host:              cfg.Host,
			Port:              cfg.Port,
			ReadHeaderTimeout: readHeaderTimeout,
			LivenessEndpoint:  cfg.LivenessEndpoint,
		},
		destinations,
		packages,
		bookManager,
		stateStore,
	)

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", cfg.Host, cfg.Port)

	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

// runBookingMirror keeps a persisted copy of the booking list in the local
// kv scope, refreshed on every lifecycle event. Readers get the last mirrored
// list even after a restart; the mirror is dropped again at startup by the
// migration.
func runBookingMirror(
	ctx context.Context,
	l *logger.Logger,
	bus *event.Bus,
	bookManager *booking.Manager,
	store *kv.Store,
) error {
	created, err := bus.Subscribe(ctx, event.TopicBookingCreated)
	if err != nil {
		return err
	}

	statusChanged, err := bus.Subscribe(ctx, event.TopicBookingStatusChanged)
	if err != nil {
		return err
	}

	deleted, err := bus.Subscribe(ctx, event.TopicBookingDeleted)
	if err != nil {
		return err
	}

	mirror := func(msg *message.Message) {
		msg.Ack()
		store.Set(bookingMirrorKey, bookManager.List(), kv.ScopeLocal, 0)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-created:
				if !ok {
					return
				}

				mirror(msg)
			case msg, ok := <-statusChanged:
				if !ok {
					return
				}

				mirror(msg)
			case msg, ok := <-deleted:
				if !ok {
					return
				}

				mirror(msg)
			}
		}
	}()

	return nil
}
