package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
	"github.com/Sternrassler/pokedex-client/pkg/detail"
	"github.com/Sternrassler/pokedex-client/pkg/typecolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// renderer styles output for the writer it targets; plain text when w is not
// a terminal.
type renderer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	title lipgloss.Style
	muted lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:     w,
		r:     r,
		title: r.NewStyle().Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// badge renders a category label on its display color.
func (p *renderer) badge(category string) string {
	c := typecolor.For(category)
	return p.r.NewStyle().
		Background(lipgloss.Color(c.Background)).
		Foreground(lipgloss.Color(c.Foreground.Hex())).
		Padding(0, 1).
		Render(category)
}

func (p *renderer) badges(categories []string) string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, p.badge(c))
	}
	return strings.Join(out, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// catalogOutput is the JSON form of a catalog view.
type catalogOutput struct {
	Entries           []catalog.Entry `json:"entries"`
	HasMore           bool            `json:"has_more"`
	Filters           catalog.Filters `json:"filters"`
	CategoryOptions   []string        `json:"category_options"`
	GenerationOptions []string        `json:"generation_options"`
}

func (p *renderer) catalog(view catalog.View) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers("ID", "NAME", "TYPES", "HEIGHT (m)", "WEIGHT (kg)")

	for _, e := range view.Visible {
		t.Row(
			strconv.Itoa(e.ID),
			e.Name,
			p.badges(e.Categories),
			strconv.FormatFloat(e.HeightMeters(), 'f', 1, 64),
			strconv.FormatFloat(e.WeightKilograms(), 'f', 1, 64),
		)
	}

	fmt.Fprintln(p.w, t.Render())

	more := "end of catalog"
	if view.HasMore {
		more = "more available"
	}
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("%d entries shown, %s", len(view.Visible), more)))
}

func (p *renderer) entry(vm *detail.ViewModel) {
	e := vm.Entry
	fmt.Fprintf(p.w, "%s  %s\n", p.title.Render(fmt.Sprintf("#%d %s", e.ID, e.Name)), p.badges(e.Categories))
	fmt.Fprintf(p.w, "%s · %.1f m · %.1f kg\n", vm.GenerationLabel, e.HeightMeters(), e.WeightKilograms())
	fmt.Fprintln(p.w, vm.ObtainText())

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.title.Render("Stats"))
	stats := table.New().Border(lipgloss.HiddenBorder())
	for _, s := range vm.Stats {
		stats.Row(s.Name, strconv.Itoa(s.Value))
	}
	fmt.Fprintln(p.w, stats.Render())

	fmt.Fprintln(p.w, p.title.Render("Evolution"))
	stages := make([]string, 0, len(vm.EvolutionChain))
	for _, s := range vm.EvolutionChain {
		stage := s.Name
		if s.Condition != nil {
			stage = fmt.Sprintf("(%s) %s", s.Condition.Label(), s.Name)
		}
		stages = append(stages, stage)
	}
	fmt.Fprintln(p.w, strings.Join(stages, " → "))

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.title.Render("Encounters"))
	if len(vm.Encounters) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("none"))
	} else {
		enc := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(p.muted).
			Headers("VERSION", "LOCATION", "CONTEXT")
		for _, r := range vm.Encounters {
			enc.Row(r.Version, r.Location, r.Context)
		}
		fmt.Fprintln(p.w, enc.Render())
	}

	fmt.Fprintln(p.w, p.title.Render("Moves"))
	moves := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers("LEVEL", "MOVE", "TYPE", "METHOD")
	for _, m := range vm.Moves {
		moves.Row(m.LevelLabel(), m.DisplayName(), p.badge(m.Category), m.DisplayMethod())
	}
	fmt.Fprintln(p.w, moves.Render())
}
