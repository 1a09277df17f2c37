// Package app bootstraps the central controller. It is the composition root:
// everything is wired here and nowhere else.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/secure-shed/shedctl/internal/adapters/apiclient"
	"github.com/secure-shed/shedctl/internal/adapters/gpio"
	"github.com/secure-shed/shedctl/internal/adapters/storage"
	"github.com/secure-shed/shedctl/internal/adapters/web/handlers"
	webserver "github.com/secure-shed/shedctl/internal/adapters/web/server"
	"github.com/secure-shed/shedctl/internal/adapters/web/stream"
	"github.com/secure-shed/shedctl/internal/config"
	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/services/bus"
	"github.com/secure-shed/shedctl/internal/core/services/devicemgr"
	"github.com/secure-shed/shedctl/internal/core/services/state"
	"github.com/secure-shed/shedctl/internal/core/services/worker"
	"github.com/secure-shed/shedctl/internal/logstore"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

// ShutdownTimeout bounds how long Run waits for the worker to finish its
// final tick and release the hardware.
const ShutdownTimeout = 10 * time.Second

// Application is the assembled central controller.
type Application struct {
	Config  *config.ControllerConfig
	Bus     *bus.Bus
	Store   *storage.SQLiteAdapter
	Devices *devicemgr.Manager
	State   *state.Manager
	Worker  *worker.Worker
	Web     *webserver.Server
	Stream  *stream.Manager

	log *slog.Logger
}

// New loads configuration and wires every component. dbPath is the key-code
// database location; ring receives the process's console log entries.
func New(cfg *config.ControllerConfig, dbPath string, ring *logstore.Store, log *slog.Logger) (*Application, error) {
	telemetry.InitMetrics()

	app := &Application{Config: cfg, log: log}

	store, err := storage.NewSQLiteAdapter(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("key code store init failed: %w", err)
	}
	app.Store = store

	app.Bus = bus.New(log)

	keypadClient := apiclient.New(cfg.KeypadController.Endpoint,
		cfg.KeypadController.AuthKey, 0)
	app.State = state.New(store, app.Bus, keypadClient, cfg.FailedAttemptTable(), log)

	pinoutPath := config.Env(config.EnvCentralPinout, gpio.DefaultPinoutPath)
	driver := gpio.NewEmulated(pinoutPath, log)
	app.Devices = devicemgr.New(driver, app.Bus, devicemgr.DefaultRegistry(), log)

	descriptors, err := config.LoadDevicesConfig(cfg.GeneralSettings.DevicesConfigFile)
	if err != nil {
		return nil, fmt.Errorf("devices config load failed: %w", err)
	}
	deviceTypes, err := config.LoadDeviceTypesConfig(cfg.GeneralSettings.DeviceTypesConfigFile)
	if err != nil {
		return nil, fmt.Errorf("device types config load failed: %w", err)
	}
	app.Devices.Load(descriptors, deviceTypes)

	app.registerHandlers()

	app.Worker = worker.New(worker.Hooks{
		CheckDevices:     app.Devices.CheckDevices,
		ProcessNextEvent: func() { app.Bus.ProcessNext() },
		Cleanup:          app.Devices.Cleanup,
	}, log)

	app.Stream = stream.NewManager(ring, log)
	router := webserver.CentralRoutes(cfg.CentralControllerAPI.AuthKey,
		handlers.NewCentralHandler(app.Bus, log),
		handlers.NewLogsHandler(ring), app.Stream)
	addr := fmt.Sprintf(":%d", cfg.CentralControllerAPI.NetworkPort)
	app.Web = webserver.New(addr, "shed-controller", router, log)

	return app, nil
}

// registerHandlers binds every event kind to its consumer. Registration is
// complete before the worker starts, so the closed-set invariant holds from
// the first queued event.
func (app *Application) registerHandlers() {
	background := context.Background()

	app.Bus.Register(domain.EventKeypadKeyCodeEntered, func(evt domain.Event) {
		app.State.HandleKeypadEvent(background, evt)
	})
	app.Bus.Register(domain.EventSensorDeviceStateChange, app.State.HandleDeviceEvent)

	app.Bus.Register(domain.EventActivateSiren, app.Devices.ReceiveEvent)
	app.Bus.Register(domain.EventDeactivateSiren, app.Devices.ReceiveEvent)
	app.Bus.Register(domain.EventAlarmActivated, app.Devices.ReceiveEvent)
	app.Bus.Register(domain.EventAlarmDeactivated, app.Devices.ReceiveEvent)

	app.Bus.Register(domain.EventKeypadAPISendAlivePing, func(evt domain.Event) {
		app.State.SendAlivePingMsg(background, evt)
	})
	app.Bus.Register(domain.EventKeypadAPISendKeypadLock, func(evt domain.Event) {
		app.State.SendKeypadLockedMsg(background, evt)
	})
}

// Run starts the worker and web server and blocks until ctx is cancelled and
// shutdown completes. The keypad is woken with an alive ping at start.
func (app *Application) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go app.Worker.Run(workerCtx)

	app.Stream.Start(ctx)

	// Wake the keypad out of its comms-lost panel after boot.
	app.Bus.Queue(domain.NewEvent(domain.EventKeypadAPISendAlivePing, nil))

	err := app.Web.Run(ctx)

	app.log.Info("shutting down worker")
	app.Bus.Disable()
	app.Worker.RequestShutdown()
	if !app.Worker.AwaitShutdown(ShutdownTimeout) {
		app.log.Error("worker did not shut down in time")
	}

	if closeErr := app.Store.Close(); closeErr != nil {
		app.log.Error("key code store close failed", "error", closeErr)
	}
	return err
}
