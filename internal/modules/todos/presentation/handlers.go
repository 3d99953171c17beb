package presentation

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/bot"
	"github.com/kaedebot/kaede/internal/discordui"
	"github.com/kaedebot/kaede/internal/menu"
	"github.com/kaedebot/kaede/internal/modules/todos/application/usecases"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

const listPerPage = 10

// Handlers holds all the command handlers.
type Handlers struct {
	todos *usecases.TodoService
	menus *discordui.Manager
}

// NewHandlers creates new Handlers.
func NewHandlers(todos *usecases.TodoService, menus *discordui.Manager) *Handlers {
	return &Handlers{
		todos: todos,
		menus: menus,
	}
}

// HandleTodo handles the /todo command.
func (h *Handlers) HandleTodo(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "add":
		return h.handleAdd(i, r, subCmd.Options)
	case "list":
		return h.handleList(i, r)
	case "remove":
		return h.handleRemove(i, r, subCmd.Options)
	case "clear":
		return h.handleClear(i, r)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *Handlers) handleAdd(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var content string
	for _, opt := range options {
		if opt.Name == "content" {
			content = opt.StringValue()
		}
	}

	output, err := h.todos.Add(context.Background(), usecases.AddInput{
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return respondError(r, addErrorMessage(err))
	}

	return respondSuccess(r, fmt.Sprintf("Added **%s** to your todo list.", output.Todo.Content))
}

func (h *Handlers) handleList(i *discordgo.InteractionCreate, r bot.Responder) error {
	ctx := context.Background()

	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	output, err := h.todos.List(ctx, usecases.ListInput{UserID: userID})
	if err != nil {
		return respondError(r, "Failed to load your todo list.")
	}
	if len(output.Todos) == 0 {
		return respondSuccess(r, "Your todo list is empty.")
	}

	lines := make([]string, 0, len(output.Todos))
	for idx, todo := range output.Todos {
		lines = append(lines, fmt.Sprintf("%d\\. %s", idx+1, truncate(todo.Content, 100)))
	}

	source, err := menu.NewListSource(lines, menu.Config{
		PerPage:  listPerPage,
		UseEmbed: true,
		Template: &menu.Embed{
			Title: "Todos",
			Color: colorSuccess,
		},
	})
	if err != nil {
		return respondError(r, "Failed to build the todo list.")
	}

	session := menu.NewSession(source)
	if pages := source.PageCount(); pages > 1 {
		session.AttachSelector(menu.NewPageSelector(pages))
	}

	if err := h.menus.Open(ctx, session, i.Interaction, commandUser(i).ID); err != nil {
		return fmt.Errorf("failed to open todo list menu: %w", err)
	}
	return nil
}

func (h *Handlers) handleRemove(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var id uuid.UUID
	found := false
	for _, opt := range options {
		if opt.Name == "todo" {
			id, err = uuid.Parse(opt.StringValue())
			found = err == nil
		}
	}
	if !found {
		return respondError(r, "No such todo.")
	}

	err = h.todos.Remove(context.Background(), usecases.RemoveInput{
		UserID: userID,
		ID:     id,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrTodoNotFound) {
			return respondError(r, "No such todo.")
		}
		return respondError(r, "Failed to remove the todo.")
	}

	return respondSuccess(r, "Removed the todo.")
}

func (h *Handlers) handleClear(i *discordgo.InteractionCreate, r bot.Responder) error {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	output, err := h.todos.Clear(context.Background(), usecases.ClearInput{UserID: userID})
	if err != nil {
		return respondError(r, "Failed to clear your todo list.")
	}
	if output.Removed == 0 {
		return respondSuccess(r, "Your todo list is already empty.")
	}

	return respondSuccess(r, fmt.Sprintf("Removed %d todos.", output.Removed))
}

func addErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrEmptyContent):
		return "Todo content must not be empty."
	case errors.Is(err, usecases.ErrContentTooLong):
		return fmt.Sprintf("Todo content is limited to %d characters.", domain.MaxContentLength)
	case errors.Is(err, usecases.ErrTooManyTodos):
		return fmt.Sprintf("You already have %d todos. Remove some first.", domain.MaxPerUser)
	default:
		return "Failed to add the todo."
	}
}

// commandUser returns the invoking user for both guild and DM interactions.
func commandUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func respondSuccess(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
