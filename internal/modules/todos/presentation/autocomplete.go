package presentation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kaedebot/kaede/internal/modules/todos/application/usecases"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxChoices = 25

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	todos *usecases.TodoService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(todos *usecases.TodoService) *AutocompleteHandler {
	return &AutocompleteHandler{todos: todos}
}

// HandleTodoOption handles autocomplete for the todo option of
// /todo remove, fuzzy-matching the typed text against the user's entries.
func (h *AutocompleteHandler) HandleTodoOption(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	userID, err := snowflake.Parse(commandUser(i).ID)
	if err != nil {
		slog.Warn("failed to parse user ID in autocomplete", "error", err)
		return
	}

	var query string
	options := i.ApplicationCommandData().Options
	if len(options) > 0 {
		for _, opt := range options[0].Options {
			if opt.Name == "todo" && opt.Focused {
				query = opt.StringValue()
			}
		}
	}

	output, err := h.todos.List(context.Background(), usecases.ListInput{UserID: userID})
	if err != nil {
		slog.Warn("failed to list todos for autocomplete", "error", err)
		respondChoices(s, i, nil)
		return
	}

	contents := make([]string, len(output.Todos))
	for idx, todo := range output.Todos {
		contents[idx] = todo.Content
	}

	indices := make([]int, 0, len(contents))
	if query == "" {
		for idx := range contents {
			indices = append(indices, idx)
		}
	} else {
		ranks := fuzzy.RankFindNormalizedFold(query, contents)
		sort.Sort(ranks)
		for _, rank := range ranks {
			indices = append(indices, rank.OriginalIndex)
		}
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(indices), maxChoices))
	for _, idx := range indices {
		if len(choices) >= maxChoices {
			break
		}
		todo := output.Todos[idx]
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(todo.Content, 100),
			Value: todo.ID.String(),
		})
	}

	respondChoices(s, i, choices)
}

func respondChoices(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	choices []*discordgo.ApplicationCommandOptionChoice,
) {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}
