// Package app wires configuration, the backend client, flows and handlers
// into a runnable Telegram bot.
package app

import (
	"time"

	"github.com/sporttich/sportbot/core/bootstrap"
	coreconfig "github.com/sporttich/sportbot/core/config"
	coretelegram "github.com/sporttich/sportbot/core/telegram"
	"github.com/sporttich/sportbot/core/telegram/commands"
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/core/telegram/middleware"
	"github.com/sporttich/sportbot/core/telegram/router"
	"github.com/sporttich/sportbot/core/telegram/state"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/flow"
	"github.com/sporttich/sportbot/internal/handlers"
	"github.com/sporttich/sportbot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

// Config is the bot's full configuration file.
type Config struct {
	coreconfig.Config `yaml:",inline"`
}

// CoreConfig satisfies core/cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads and normalizes the YAML config.
func LoadConfig(path string) (*Config, error) {
	core, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Config: *core}, nil
}

// App holds the wired bot components.
type App struct {
	cfg    *Config
	api    *backend.Client
	states state.Manager
	locks  *state.Locker
	flows  *flow.Executor
	h      *handlers.Handlers
}

// New bootstraps logging, the backend client and the flow engine.
func New(cfg *Config) (*App, error) {
	core := cfg.CoreConfig()
	api := backend.New(core)

	if err := bootstrap.Run(bootstrap.Options{
		Config:      core,
		HealthCheck: api.Health,
	}); err != nil {
		return nil, err
	}

	states := state.NewMemoryManager(core.SessionTTL())
	flows := flow.NewExecutor(states,
		flow.NewCreateEventFlow(api, time.Now),
		flow.NewRegisterFlow(api),
	)

	// A recovered panic must not leave the user stuck mid-dialog: the
	// session is dropped and the user gets an apology with the main menu.
	middleware.OnPanic = states.Clear
	middleware.OnPanicReply = func(c tele.Context) error {
		return tghelpers.SendHTML(c, ui.TextInternalError, ui.MainMenu())
	}

	return &App{
		cfg:    cfg,
		api:    api,
		states: states,
		locks:  state.NewLocker(),
		flows:  flows,
		h:      handlers.New(api, flows),
	}, nil
}

// TelegramRunOptions assembles the registry, routes and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.h.Start,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.h.Help,
		Description: "Справка по командам",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.h.Cancel,
		Description: "Отменить текущее действие",
		Labels:      []string{ui.BtnCancel},
	})
	reg.RegisterCommand("/register", commands.Command{
		Handler:     a.h.RegisterEntry,
		Description: "Заполнить профиль",
	})
	reg.RegisterCommand("/my_events", commands.Command{
		Handler: a.h.MyEvents,
		Hidden:  true,
		Labels:  []string{ui.BtnMyEvents},
	})
	reg.RegisterCommand("/search", commands.Command{
		Handler: a.h.SearchEvents,
		Hidden:  true,
		Labels:  []string{ui.BtnSearchEvents},
	})
	reg.RegisterCommand("/create", commands.Command{
		Handler: a.h.CreateEventEntry,
		Hidden:  true,
		Labels:  []string{ui.BtnCreateEvent},
	})
	reg.RegisterCommand("/profile", commands.Command{
		Handler: a.h.Profile,
		Hidden:  true,
		Labels:  []string{ui.BtnProfile},
	})
	reg.RegisterCommand("/users", commands.Command{
		Handler:   a.h.Users,
		AdminOnly: true,
		Hidden:    true,
	})

	if err := reg.RegisterCallback(ui.CallbackJoin, a.h.Join); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(ui.CallbackLeave, a.h.Leave); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetCallbackNotFound(a.h.CallbackNotFound)
	reg.SetTextFallback(a.h.Unknown)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: a.h.AdminReject,
		FSM:           a.flows,
		FlowExempt:    []string{"/cancel"},
	})
	routes = append(routes, router.TextRoutes(a.flows, reg, router.TextOptions{
		CancelLabels: []string{ui.BtnCancel},
		OnCancel:     a.h.Cancel,
		UnknownText:  a.h.Unknown,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.h.CallbackNotFound,
	}))

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, a.locks, nil),
		Routes:      routes,
	}, nil
}
