package presentation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kaedebot/kaede/internal/modules/reminders/application/usecases"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxChoices = 25

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	reminders *usecases.ReminderService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(reminders *usecases.ReminderService) *AutocompleteHandler {
	return &AutocompleteHandler{reminders: reminders}
}

// HandleReminderOption handles autocomplete for the reminder option of
// /remind view and /remind cancel, fuzzy-matching the typed text against
// the user's reminder contents.
func (h *AutocompleteHandler) HandleReminderOption(
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
			if opt.Name == "reminder" && opt.Focused {
				query = opt.StringValue()
			}
		}
	}

	output, err := h.reminders.List(context.Background(), usecases.ListInput{UserID: userID})
	if err != nil {
		slog.Warn("failed to list reminders for autocomplete", "error", err)
		respondChoices(s, i, nil)
		return
	}

	contents := make([]string, len(output.Reminders))
	for idx, reminder := range output.Reminders {
		contents[idx] = reminder.Content
	}

	// With no text typed yet, offer everything soonest first.
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
		reminder := output.Reminders[idx]
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(reminder.Content, 100),
			Value: reminder.ID.String(),
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
