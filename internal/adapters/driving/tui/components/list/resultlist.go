// Package list provides the retrieval result list for the chat TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// ResultList shows retrieval results. The selected result is expanded to
// its full content; the others show a one-line preview.
type ResultList struct {
	results  []domain.RetrievalResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles selection movement.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // only arrow keys move the selection
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
		}
	}
	return r, nil
}

// View renders the results.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No matching cars found.")
	}

	lines := []string{r.styles.Title.Render("Retrieved Cars:"), ""}
	for i := r.firstVisible(); i < len(r.results); i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]), "")
	}
	return strings.Join(lines, "\n")
}

// firstVisible keeps the selected result on screen. The expanded result is
// counted as its full line count, the others as two lines.
func (r *ResultList) firstVisible() int {
	if len(r.results) == 0 {
		return 0
	}
	budget := r.height - 2 - lineCount(r.results[r.selected].Content) - 3
	start := r.selected
	for start > 0 && budget >= 3 {
		start--
		budget -= 3
	}
	return start
}

func (r *ResultList) renderResult(index int, res *domain.RetrievalResult) string {
	indicator := "  "
	header := r.styles.ResultHeader
	if index == r.selected {
		indicator = "> "
		header = r.styles.Selected
	}

	title := header.Render(fmt.Sprintf("%sResult %d:", indicator, index+1)) + " " +
		r.styles.Source.Render(res.Source) + " " +
		r.styles.Score.Render(fmt.Sprintf("(%.3f)", res.Score))

	if index == r.selected {
		body := r.styles.Content.Render(strings.TrimRight(res.Content, "\n"))
		source := r.styles.Muted.Render("  Source: ") + r.styles.Source.Render(res.Source)
		return title + "\n" + body + "\n" + source
	}
	return title + "\n" + r.styles.Muted.Render("    "+r.preview(res.Content))
}

// preview flattens content onto one line and truncates it to the list width.
func (r *ResultList) preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	limit := max(r.width-8, 20)
	runes := []rune(flat)
	if len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return flat
}

func lineCount(s string) int {
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

// SetResults replaces the results and selects the first.
func (r *ResultList) SetResults(results []domain.RetrievalResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.RetrievalResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the selected result, or nil when the list is empty.
func (r *ResultList) SelectedResult() *domain.RetrievalResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// Clear removes all results.
func (r *ResultList) Clear() {
	r.results = nil
	r.selected = 0
}
