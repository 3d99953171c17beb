package reminders

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/kaedebot/kaede/internal/bot"
	"github.com/kaedebot/kaede/internal/modules/reminders/application/usecases"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
	"github.com/kaedebot/kaede/internal/modules/reminders/infrastructure"
	"github.com/kaedebot/kaede/internal/modules/reminders/presentation"
)

func init() {
	bot.Register(&RemindersModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*RemindersModule)(nil)

// RemindersModule provides reminder commands and background delivery.
type RemindersModule struct {
	config       *Config
	handlers     *presentation.Handlers
	autocomplete *presentation.AutocompleteHandler
	delivery     *usecases.DeliveryService
}

// Name returns the module name.
func (m *RemindersModule) Name() string {
	return "reminders"
}

// Commands returns the slash commands for this module.
func (m *RemindersModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *RemindersModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"remind": m.handlers.HandleRemind,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *RemindersModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *RemindersModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *RemindersModule) Init(deps bot.ModuleDependencies) error {
	var repo domain.Repository
	if deps.DB != nil {
		sqliteRepo, err := infrastructure.NewSQLiteRepository(deps.DB)
		if err != nil {
			return err
		}
		repo = sqliteRepo
	} else {
		slog.Warn("reminders module initialized without database, reminders will not survive restarts")
		repo = infrastructure.NewMemoryRepository()
	}

	service := usecases.NewReminderService(repo)
	m.handlers = presentation.NewHandlers(service, deps.Menus)
	m.autocomplete = presentation.NewAutocompleteHandler(service)

	// Delivery needs a live gateway session; without one the commands
	// still work but nothing fires.
	if deps.Session != nil {
		notifier := infrastructure.NewDiscordNotifier(deps.Session)
		m.delivery = usecases.NewDeliveryService(repo, notifier, m.config.PollInterval)
		m.delivery.Start()
		slog.Info("reminders module initialized", "poll_interval", m.config.PollInterval)
	}

	return nil
}

// Shutdown cleans up module resources.
func (m *RemindersModule) Shutdown() error {
	if m.delivery != nil {
		m.delivery.Shutdown()
	}
	return nil
}

func (m *RemindersModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "remind" || len(data.Options) == 0 {
		return
	}

	switch data.Options[0].Name {
	case "view", "cancel":
		m.autocomplete.HandleReminderOption(s, i)
	}
}
