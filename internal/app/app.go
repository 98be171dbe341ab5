package app

import (
	"context"
	"log"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pagebuilder/internal/config"
	"pagebuilder/internal/dragdrop"
	"pagebuilder/internal/input"
	"pagebuilder/internal/keyboard"
	"pagebuilder/internal/service"
	"pagebuilder/internal/transform"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfgPath string
	emitter service.EventEmitter

	ws *Workspace

	// Pointer and keyboard sessions
	bus       *input.Bus
	bridge    *dragdrop.Bridge
	drops     *dragdrop.Controller
	keys      *keyboard.Controller
	shortcuts *keyboard.Dispatcher
	mover     *transform.Mover

	mu      sync.Mutex
	resizer *transform.Resizer
	zones   map[string]func()

	watcher *canvasWatcher
}

// New creates a new App reading its settings from cfgPath.
func New(cfgPath string) *App {
	return &App{cfgPath: cfgPath, emitter: wailsEmitter{}}
}

// wailsEmitter pushes service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load config, using defaults: %v", err)
		cfg = config.Default()
	}
	ws, err := OpenWorkspace(cfg, a.emitter, nil)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open workspace: %v", err)
		return
	}
	if err := a.start(ctx, ws); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to open last canvas: %v", err)
	}
	size := ws.Windows.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)

	if err := config.Watch(a.ctx, a.cfgPath, a.applyConfig); err != nil {
		log.Printf("[CONFIG] live reload disabled: %v", err)
	}
	a.watcher = newCanvasWatcher(a.ctx, ws.Canvases)
	a.watcher.Start()
}

// start wires the interaction controllers around ws and opens the last
// canvas. Tests call it with a mock emitter instead of going through Wails.
func (a *App) start(ctx context.Context, ws *Workspace) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.ws = ws
	a.zones = make(map[string]func())
	ws.Canvases.SetContext(a.ctx)

	ed := ws.Editor
	a.bus = input.NewBus()
	a.bridge = dragdrop.NewBridge()
	a.drops = dragdrop.NewController(a.bridge, ed)
	a.drops.Listen(a.bus)
	a.drops.OnChange(func(st dragdrop.ZoneStatus) {
		a.emitter.Emit(a.ctx, service.EventZoneStatus, st)
	})
	announcer := keyboard.AnnouncerFunc(func(msg string) {
		a.emitter.Emit(a.ctx, service.EventAnnounce, msg)
	})
	a.keys = keyboard.NewController(ed, announcer,
		keyboard.WithSteps(ws.Config.Keyboard.Step, ws.Config.Keyboard.FineStep))
	a.shortcuts = keyboard.NewDispatcher(ws.Clipboard, a.keys, announcer)
	a.mover = transform.NewMover(ed, a.bus)

	if err := ws.Canvases.StartAutosave(ws.Config.Autosave.Schedule); err != nil {
		log.Printf("[AUTOSAVE] %v", err)
	}
	return ws.Canvases.OpenLast()
}

// BeforeClose remembers the window size for the next start. It never
// prevents the window from closing.
func (a *App) BeforeClose(ctx context.Context) bool {
	if a.ws == nil {
		return false
	}
	w, h := wailsRuntime.WindowGetSize(ctx)
	if err := a.ws.Windows.SaveWindowSize(w, h); err != nil {
		log.Printf("[APP] %v", err)
	}
	return false
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.ws == nil {
		return
	}
	a.DragCancel()
	a.keys.Cancel()
	a.mover.Cancel()
	a.mu.Lock()
	if a.resizer != nil {
		a.resizer.Cancel()
	}
	a.mu.Unlock()
	a.cancel()
	a.ws.Close(ctx)
}

// applyConfig takes over the settings that can change while running.
// Grid and history capacity apply on the next start.
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	prev := a.ws.Config
	a.mu.Unlock()

	a.keys.SetSteps(cfg.Keyboard.Step, cfg.Keyboard.FineStep)
	a.ws.Clipboard.SetEnabled(cfg.Clipboard.System)
	if cfg.Autosave.Schedule != prev.Autosave.Schedule {
		if err := a.ws.Canvases.StartAutosave(cfg.Autosave.Schedule); err != nil {
			log.Printf("[CONFIG] %v, keeping %q", err, prev.Autosave.Schedule)
			cfg.Autosave.Schedule = prev.Autosave.Schedule
			a.ws.Canvases.StartAutosave(prev.Autosave.Schedule)
		}
	}

	a.mu.Lock()
	a.ws.Config = cfg
	a.mu.Unlock()
	log.Printf("[CONFIG] reloaded %s", a.cfgPath)
	a.emitter.Emit(a.ctx, service.EventConfigChanged, cfg)
}

// GetConfig returns the active settings.
func (a *App) GetConfig() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ws.Config
}
