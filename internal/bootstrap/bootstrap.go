package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	assistantinadapter "focustree/internal/modules/assistant/adapter/in"
	assistantoutadapter "focustree/internal/modules/assistant/adapter/out"
	assistantout "focustree/internal/modules/assistant/port/out"
	assistantservice "focustree/internal/modules/assistant/service"
	assistantusecase "focustree/internal/modules/assistant/usecase"
	coachinadapter "focustree/internal/modules/coach/adapter/in"
	coachoutadapter "focustree/internal/modules/coach/adapter/out"
	coachin "focustree/internal/modules/coach/port/in"
	coachout "focustree/internal/modules/coach/port/out"
	coachservice "focustree/internal/modules/coach/service"
	coachusecase "focustree/internal/modules/coach/usecase"
	detectioninadapter "focustree/internal/modules/detection/adapter/in"
	detectionoutadapter "focustree/internal/modules/detection/adapter/out"
	detectiondomain "focustree/internal/modules/detection/domain"
	detectionin "focustree/internal/modules/detection/port/in"
	detectionout "focustree/internal/modules/detection/port/out"
	detectionservice "focustree/internal/modules/detection/service"
	detectionusecase "focustree/internal/modules/detection/usecase"
	interventioninadapter "focustree/internal/modules/intervention/adapter/in"
	interventionoutadapter "focustree/internal/modules/intervention/adapter/out"
	interventiondto "focustree/internal/modules/intervention/dto"
	interventionin "focustree/internal/modules/intervention/port/in"
	interventionservice "focustree/internal/modules/intervention/service"
	interventionusecase "focustree/internal/modules/intervention/usecase"
	recoveryinadapter "focustree/internal/modules/recovery/adapter/in"
	recoveryoutadapter "focustree/internal/modules/recovery/adapter/out"
	recoveryservice "focustree/internal/modules/recovery/service"
	recoveryusecase "focustree/internal/modules/recovery/usecase"
	sessioninadapter "focustree/internal/modules/session/adapter/in"
	sessionoutadapter "focustree/internal/modules/session/adapter/out"
	sessiondto "focustree/internal/modules/session/dto"
	sessionin "focustree/internal/modules/session/port/in"
	sessionservice "focustree/internal/modules/session/service"
	sessionusecase "focustree/internal/modules/session/usecase"
	setupinadapter "focustree/internal/modules/setup/adapter/in"
	setupoutadapter "focustree/internal/modules/setup/adapter/out"
	setupin "focustree/internal/modules/setup/port/in"
	setupservice "focustree/internal/modules/setup/service"
	setupusecase "focustree/internal/modules/setup/usecase"
	"focustree/internal/platform/clock"
	"focustree/internal/platform/config"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/id"
	"focustree/internal/platform/logging"
	"focustree/internal/platform/timeouts"
	uiapp "focustree/internal/ui/app"
)

// Options select the frame source for a live session.
type Options struct {
	// NoCamera keeps the detector idle; the session runs on the clock alone.
	NoCamera bool
	// FramesDir replays captured frames instead of opening the webcam.
	FramesDir string
}

type App struct {
	Config config.Config
	Log    hclog.Logger

	SessionCLI      sessioninadapter.CLIHandler
	SetupCLI        setupinadapter.CLIHandler
	CoachCLI        coachinadapter.CLIHandler
	DetectionTUI    detectioninadapter.TUIHandler
	InterventionTUI interventioninadapter.TUIHandler
	RecoveryTUI     recoveryinadapter.TUIHandler
	AssistantTUI    assistantinadapter.TUIHandler

	clock        clock.Clock
	coach        coachin.Usecase
	setup        setupin.Usecase
	detection    detectionin.Usecase
	intervention interventionin.Usecase
	closers      []io.Closer
}

// sessionRef lets setup read session history while the session module is
// itself built on top of setup.
type sessionRef struct {
	sessionin.Usecase
}

func New(cfg config.Config, opts Options) (*App, error) {
	log, logFile, err := logging.NewFile("focustree", cfg.Env.LogLevel, cfg.LogPath)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log, clock: clock.SystemClock{}, closers: []io.Closer{logFile}}
	clk := app.clock

	model, err := newModel(cfg.Env, log.Named("coach"))
	if err != nil {
		app.Close()
		return nil, err
	}
	if c, ok := model.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	app.coach = coachusecase.NewInteractor(coachservice.NewCoachService(model, coachservice.DefaultTimeouts(), log.Named("coach")))

	sessions := &sessionRef{}
	app.setup = setupusecase.NewInteractor(setupservice.NewConfigService(
		setupoutadapter.NewYAMLConfigStore(cfg.SettingsPath),
		setupoutadapter.NewCoachSuggester(app.coach),
		setupoutadapter.NewSessionHistoryAdapter(sessions),
		log.Named("setup"),
	))

	records, err := sessionoutadapter.NewSQLiteRecordStore(cfg.DBPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new session record store: %w", err)
	}
	app.closers = append(app.closers, records)
	sessionConfig := sessionoutadapter.NewSetupConfigAdapter(app.setup)
	sessions.Usecase = sessionusecase.NewInteractor(sessionservice.NewSessionService(sessionservice.Deps{
		Clock:    clk,
		IDGen:    id.UUID{},
		Active:   sessionoutadapter.NewFileActiveSessionStore(cfg.ActivePath),
		Records:  records,
		Notes:    sessionoutadapter.NewMarkdownNoteStore(cfg.SessionsDir),
		Insights: sessionoutadapter.NewCoachInsightsAdapter(app.coach),
		Config:   sessionConfig,
		Notifier: sessionoutadapter.NewDesktopNotifier(),
		Log:      log.Named("session"),
	}), sessionConfig)

	taskSource := recoveryoutadapter.NewCoachTaskAdapter(app.coach)
	recoveryLog := log.Named("recovery")
	recoveryUC := recoveryusecase.NewInteractor(recoveryservice.NewRecoveryService(
		recoveryservice.NewTaskQueue(taskSource, recoveryLog),
		taskSource,
		rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		recoveryLog,
	))

	interventionLog := log.Named("intervention")
	machine := interventionservice.NewMachine(interventionservice.Deps{
		Clock:    clk,
		Session:  interventionoutadapter.NewSessionAdapter(sessions.Usecase),
		Config:   interventionoutadapter.NewSetupConfigAdapter(app.setup),
		Planner:  interventionoutadapter.NewCoachPlanner(app.coach),
		Prefetch: interventionoutadapter.NewRecoveryPrefetchAdapter(recoveryUC),
		Alarm:    interventionoutadapter.NewProcessAlarm(cfg.DataDir, interventionLog),
		Speaker:  interventionoutadapter.NewProcessSpeaker(),
		Log:      interventionLog,
	})
	app.intervention = interventionusecase.NewInteractor(machine)

	app.detection = detectionusecase.NewInteractor(detectionservice.NewDetector(
		detectiondomain.DefaultTuning(),
		frameSource(cfg, opts, log.Named("camera")),
		detectionoutadapter.NewCoachClassifier(app.coach),
		detectionoutadapter.NewSessionView(sessions.Usecase, app.setup),
		detectionoutadapter.NewInterventionAdapter(app.intervention),
		clk,
		log.Named("detection"),
	), clk)

	// A new intervention starts a fresh detection episode.
	app.intervention.Subscribe(func(s interventiondto.StateOutput) {
		if s.State == "WARNING" {
			app.detection.ResetEpisode()
		}
	})

	assistantUC := assistantusecase.NewInteractor(assistantservice.NewAssistant(
		assistantoutadapter.NewCoachChatAdapter(app.coach),
		assistantoutadapter.NewSessionTranscript(sessions.Usecase),
		clk,
		log.Named("assistant"),
	))
	sessions.Subscribe(func(e sessiondto.EventOutput) {
		if e.Kind == "started" {
			assistantUC.Reset()
			recoveryUC.ResetQueue()
		}
	})

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessions.Usecase)
	app.SetupCLI = setupinadapter.NewCLIHandler(app.setup)
	app.CoachCLI = coachinadapter.NewCLIHandler(app.coach)
	app.DetectionTUI = detectioninadapter.NewTUIHandler(app.detection)
	app.InterventionTUI = interventioninadapter.NewTUIHandler(app.intervention)
	app.RecoveryTUI = recoveryinadapter.NewTUIHandler(recoveryUC)
	app.AssistantTUI = assistantinadapter.NewTUIHandler(assistantUC)
	return app, nil
}

// NewChat builds an assistant that keeps its transcript in memory, for chats
// outside a running session.
func (a *App) NewChat(goal string) assistantinadapter.CLIHandler {
	var transcript assistantout.Transcript = assistantoutadapter.NewMemoryTranscript(goal)
	return assistantinadapter.NewCLIHandler(assistantusecase.NewInteractor(assistantservice.NewAssistant(
		assistantoutadapter.NewCoachChatAdapter(a.coach),
		transcript,
		a.clock,
		a.Log.Named("chat"),
	)))
}

// Close releases the model backend, the database and the log file, in that
// order.
func (a *App) Close() {
	if a.intervention != nil {
		a.intervention.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.Log != nil {
			a.Log.Warn("close", "error", err)
		}
	}
	a.closers = nil
}

// RunSession restores an unfinished session or starts a new one, then drives
// the detector, the config watcher and the TUI until the TUI exits.
func RunSession(ctx context.Context, app *App, goal string, opts Options) error {
	if _, restored, err := app.SessionCLI.Restore(ctx); err != nil {
		return err
	} else if !restored {
		if strings.TrimSpace(goal) == "" {
			cfg, err := app.SetupCLI.Show(ctx)
			if err != nil {
				return err
			}
			goal = cfg.WorkingOn
		}
		if strings.TrimSpace(goal) == "" {
			return fmt.Errorf("%w: a goal is required (--goal or `config set working_on`)", apperrors.ErrInvalidInput)
		}
		if _, err := app.SessionCLI.Start(ctx, goal); err != nil {
			return err
		}
	}

	if opts.NoCamera {
		app.detection.SetMonitorEnabled(false)
	} else if err := app.detection.OpenCamera(ctx); err != nil {
		return fmt.Errorf("%w (use --no-camera to run without distraction detection)", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.detection.Run(gctx) })
	g.Go(func() error {
		if err := app.SetupCLI.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Log.Warn("config watch stopped", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return RunTUI(gctx, app)
	})
	err := g.Wait()
	app.intervention.Close()
	return err
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(uiapp.Ports{
		Session:      app.SessionCLI,
		Detection:    app.DetectionTUI,
		Intervention: app.InterventionTUI,
		Recovery:     app.RecoveryTUI,
		Assistant:    app.AssistantTUI,
		Config:       app.SetupCLI,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(env config.Env, log hclog.Logger) (coachout.Model, error) {
	switch env.AIBackend {
	case config.BackendHTTP:
		return coachoutadapter.NewHTTPModel(env.AIEndpoint, env.AIModel, env.AIKey, &http.Client{}), nil
	case config.BackendPlugin:
		return coachoutadapter.NewPluginModel(env.PluginPath, timeouts.PluginStart, log.Named("plugin")), nil
	case config.BackendOffline, "":
		return coachoutadapter.NewOfflineModel(), nil
	}
	return nil, fmt.Errorf("unknown ai backend %q", env.AIBackend)
}

func frameSource(cfg config.Config, opts Options, log hclog.Logger) detectionout.FrameSource {
	switch {
	case opts.NoCamera:
		return nil
	case opts.FramesDir != "":
		return detectionoutadapter.NewDirectorySource(opts.FramesDir)
	}
	return detectionoutadapter.NewCameraSource(cfg.Env.Device, log)
}
