package todos

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/kaedebot/kaede/internal/bot"
	"github.com/kaedebot/kaede/internal/modules/todos/application/usecases"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
	"github.com/kaedebot/kaede/internal/modules/todos/infrastructure"
	"github.com/kaedebot/kaede/internal/modules/todos/presentation"
)

func init() {
	bot.Register(&TodosModule{})
}

// Compile-time interface check.
var _ bot.Module = (*TodosModule)(nil)

// TodosModule provides personal todo list commands.
type TodosModule struct {
	handlers     *presentation.Handlers
	autocomplete *presentation.AutocompleteHandler
}

// Name returns the module name.
func (m *TodosModule) Name() string {
	return "todos"
}

// Commands returns the slash commands for this module.
func (m *TodosModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *TodosModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"todo": m.handlers.HandleTodo,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *TodosModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// Init initializes the module.
func (m *TodosModule) Init(deps bot.ModuleDependencies) error {
	var repo domain.Repository
	if deps.DB != nil {
		sqliteRepo, err := infrastructure.NewSQLiteRepository(deps.DB)
		if err != nil {
			return err
		}
		repo = sqliteRepo
	} else {
		slog.Warn("todos module initialized without database, todos will not survive restarts")
		repo = infrastructure.NewMemoryRepository()
	}

	service := usecases.NewTodoService(repo)
	m.handlers = presentation.NewHandlers(service, deps.Menus)
	m.autocomplete = presentation.NewAutocompleteHandler(service)
	return nil
}

// Shutdown cleans up module resources.
func (m *TodosModule) Shutdown() error {
	return nil
}

func (m *TodosModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "todo" || len(data.Options) == 0 {
		return
	}

	if data.Options[0].Name == "remove" {
		m.autocomplete.HandleTodoOption(s, i)
	}
}
