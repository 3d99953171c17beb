package menu

import (
	"errors"
	"reflect"
	"testing"
)

func TestListSource_PartitionsItems(t *testing.T) {
	src, err := NewListSource([]string{"a", "b", "c", "d", "e"}, Config{PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if got := src.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pages %v, got %v", want, got)
	}
	if src.PageCount() != 3 {
		t.Errorf("expected 3 pages, got %d", src.PageCount())
	}
}

func TestListSource_PartitionPreservesItems(t *testing.T) {
	items := make([]string, 23)
	for i := range items {
		items[i] = "item"
	}

	for _, perPage := range []int{1, 2, 3, 5, 23, 100} {
		src, err := NewListSource(items, Config{PerPage: perPage})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		total := 0
		pages := src.Pages()
		for i, page := range pages {
			total += len(page)
			// every page except possibly the last is exactly perPage long
			if i < len(pages)-1 && len(page) != perPage {
				t.Errorf("per_page=%d: page %d has %d items, expected %d",
					perPage, i, len(page), perPage)
			}
		}
		if total != len(items) {
			t.Errorf("per_page=%d: partition holds %d items, expected %d",
				perPage, total, len(items))
		}
	}
}

func TestListSource_EmptyCollapsesToSinglePage(t *testing.T) {
	src, err := NewListSource(nil, Config{PerPage: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", src.PageCount())
	}
	if p := src.Render(0); p.Content != "" {
		t.Errorf("expected empty render, got %q", p.Content)
	}
}

func TestListSource_RenderJoinsWithJoiner(t *testing.T) {
	src, err := NewListSource([]string{"a", "b", "c"}, Config{PerPage: 2, Joiner: ", "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p := src.Render(0); p.Content != "a, b" {
		t.Errorf("expected %q, got %q", "a, b", p.Content)
	}
	if p := src.Render(1); p.Content != "c" {
		t.Errorf("expected %q, got %q", "c", p.Content)
	}
}

func TestListSource_EmbedRenderMergesTemplate(t *testing.T) {
	src, err := NewListSource([]string{"a", "b"}, Config{
		PerPage:  2,
		UseEmbed: true,
		Template: &Embed{Title: "Results", Color: 0x08c404},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := src.Render(0)
	if p.Embed == nil {
		t.Fatal("expected an embed payload")
	}
	if p.Embed.Description != "a\nb" {
		t.Errorf("expected description %q, got %q", "a\nb", p.Embed.Description)
	}
	if p.Embed.Title != "Results" {
		t.Errorf("expected template title to carry over, got %q", p.Embed.Title)
	}

	// the template itself must stay untouched between renders
	p.Embed.Description = "mutated"
	if again := src.Render(0); again.Embed.Description != "a\nb" {
		t.Errorf("template was mutated by a previous render: %q", again.Embed.Description)
	}
}

func TestListSource_AppendMatchesUpfrontConstruction(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	all, err := NewListSource(items, Config{PerPage: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	incremental, err := NewListSource(nil, Config{PerPage: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		incremental.Append(item)
	}

	if !reflect.DeepEqual(incremental.Pages(), all.Pages()) {
		t.Errorf("incremental append produced %v, expected %v",
			incremental.Pages(), all.Pages())
	}
}

func TestListSource_PrependInsertsAtFront(t *testing.T) {
	src, err := NewListSource([]string{"b", "c"}, Config{PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.Prepend("a")

	want := [][]string{{"a", "b", "c"}}
	if got := src.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pages %v, got %v", want, got)
	}
}

func TestListSource_MutationNotifiesObserver(t *testing.T) {
	src, err := NewListSource([]string{"a"}, Config{PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notified := 0
	src.SetOnChange(func() { notified++ })

	src.Append("b")
	src.Prepend("z")

	if notified != 2 {
		t.Errorf("expected 2 notifications, got %d", notified)
	}
}

func TestListSource_RejectsInvalidPerPage(t *testing.T) {
	_, err := NewListSource([]string{"a"}, Config{PerPage: 0})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestListSource_RejectsPrefixAndSuffix(t *testing.T) {
	_, err := NewListSource([]string{"a"}, Config{PerPage: 1, Prefix: "<"})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for prefix, got %v", err)
	}

	_, err = NewListSource([]string{"a"}, Config{PerPage: 1, Suffix: ">"})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for suffix, got %v", err)
	}
}

func TestStringSource_SlicesWithPrefixAndSuffix(t *testing.T) {
	src, err := NewStringSource("0123456789", Config{PerPage: 3, Prefix: "<", Suffix: ">"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"<012>", "<345>", "<678>", "<9>"}
	if got := src.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pages %v, got %v", want, got)
	}
}

func TestStringSource_AppendMatchesUpfrontConstruction(t *testing.T) {
	all, err := NewStringSource("abcdefg", Config{PerPage: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	incremental, err := NewStringSource("", Config{PerPage: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, chunk := range []string{"ab", "cde", "fg"} {
		incremental.Append(chunk)
	}

	if !reflect.DeepEqual(incremental.Pages(), all.Pages()) {
		t.Errorf("incremental append produced %v, expected %v",
			incremental.Pages(), all.Pages())
	}
}

func TestStringSource_PrependShiftsPartitioning(t *testing.T) {
	src, err := NewStringSource("bcd", Config{PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.Prepend("a")

	want := []string{"ab", "cd"}
	if got := src.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pages %v, got %v", want, got)
	}
}

func TestStringSource_CountsCharactersNotBytes(t *testing.T) {
	src, err := NewStringSource("ねここねこ", Config{PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ねこ", "こね", "こ"}
	if got := src.Pages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected pages %v, got %v", want, got)
	}
}

func TestEmbedSource_OnePagePerEmbed(t *testing.T) {
	src := NewEmbedSource([]*Embed{
		{Title: "first"},
		{Title: "second"},
	})

	if src.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", src.PageCount())
	}
	if p := src.Render(1); p.Embed.Title != "second" {
		t.Errorf("expected title %q, got %q", "second", p.Embed.Title)
	}
}

func TestEmbedSource_RenderReturnsCopy(t *testing.T) {
	original := &Embed{Title: "first"}
	src := NewEmbedSource([]*Embed{original})

	p := src.Render(0)
	p.Embed.Footer = "Page 1/1"

	if original.Footer != "" {
		t.Errorf("render mutated the source embed: footer %q", original.Footer)
	}
}
