package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/dori/tock/internal/ui/theme"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldSize
	fieldTags
	fieldDescription
	// fieldSpans is the first interval input. Each row adds a start and
	// an end input after it.
	fieldSpans
)

// spanLayout is how interval times are shown and typed, in local time
const spanLayout = "2006-01-02 15:04"

func (f editorField) label() string {
	switch f {
	case fieldTitle:
		return "Title"
	case fieldSize:
		return "Size"
	case fieldTags:
		return "Tags"
	case fieldDescription:
		return "Description"
	default:
		return "Time Intervals"
	}
}

// fieldFor maps a ValidationError field name onto an editor field.
// Names the form does not show report -1.
func fieldFor(name string) editorField {
	switch name {
	case "title":
		return fieldTitle
	case "size":
		return fieldSize
	case "tags":
		return fieldTags
	case "description":
		return fieldDescription
	case "spans", "start", "end":
		return fieldSpans
	default:
		return -1
	}
}

// spanRow is one editable interval. orig is zero for rows added in the form.
type spanRow struct {
	orig  model.TimeSpan
	start textinput.Model
	end   textinput.Model
}

func newSpanInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = len(spanLayout)
	in.Width = len(spanLayout) + 1
	in.SetValue(value)
	return in
}

func newSpanRow(span model.TimeSpan) spanRow {
	row := spanRow{
		orig:  span,
		start: newSpanInput("YYYY-MM-DD HH:MM", ""),
		end:   newSpanInput("running", ""),
	}
	if !span.Start.IsZero() {
		row.start.SetValue(formatSpanTime(span.Start))
	}
	if span.End != nil {
		row.end.SetValue(formatSpanTime(*span.End))
	}
	return row
}

func formatSpanTime(t time.Time) string {
	return t.In(time.Local).Format(spanLayout)
}

// parseSpanTime reads a typed time. Text that still shows orig keeps orig
// so seconds are not lost.
func parseSpanTime(value string, orig time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !orig.IsZero() && value == formatSpanTime(orig) {
		return orig, nil
	}
	t, err := time.ParseInLocation(spanLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("use the form %s", spanLayout)
	}
	return t, nil
}

// span converts the row back into a TimeSpan. An empty end is a running span.
func (r spanRow) span() (model.TimeSpan, error) {
	if strings.TrimSpace(r.start.Value()) == "" {
		return model.TimeSpan{}, errors.New("start time is required")
	}
	start, err := parseSpanTime(r.start.Value(), r.orig.Start)
	if err != nil {
		return model.TimeSpan{}, fmt.Errorf("start: %w", err)
	}
	span := model.TimeSpan{Start: start}
	if strings.TrimSpace(r.end.Value()) == "" {
		return span, nil
	}
	var origEnd time.Time
	if r.orig.End != nil {
		origEnd = *r.orig.End
	}
	end, err := parseSpanTime(r.end.Value(), origEnd)
	if err != nil {
		return model.TimeSpan{}, fmt.Errorf("end: %w", err)
	}
	span.End = &end
	return span, nil
}

func (r spanRow) running() bool {
	return strings.TrimSpace(r.end.Value()) == ""
}

// EditorView is the add/edit form for a single task
type EditorView struct {
	ctx    context.Context
	editor *tracker.Editor
	width  int

	draftID     string
	title       textinput.Model
	size        model.Size
	tags        textinput.Model
	description textarea.Model
	spans       []spanRow

	focus      editorField
	errs       map[editorField]string
	formErr    string
	submitting bool
}

// NewEditorView opens the form on a draft. An empty draft ID adds a task.
func NewEditorView(ctx context.Context, editor *tracker.Editor, d tracker.Draft) EditorView {
	title := textinput.New()
	title.Placeholder = "What are you working on?"
	title.CharLimit = 256
	title.SetValue(d.Title)

	tags := textinput.New()
	tags.Placeholder = "space separated"
	tags.CharLimit = 256
	tags.SetValue(d.Tags)

	desc := textarea.New()
	desc.Placeholder = "Notes..."
	desc.ShowLineNumbers = false
	desc.SetHeight(4)
	desc.SetValue(d.Description)

	size, err := model.ParseSize(d.Size)
	if err != nil {
		size = model.SizeNone
	}

	v := EditorView{
		ctx:         ctx,
		editor:      editor,
		draftID:     d.ID,
		title:       title,
		size:        size,
		tags:        tags,
		description: desc,
		errs:        make(map[editorField]string),
	}
	for _, span := range d.Spans {
		v.spans = append(v.spans, newSpanRow(span))
	}
	v.title.Focus()
	return v
}

// IsNew reports whether saving creates a task
func (v EditorView) IsNew() bool {
	return v.draftID == ""
}

// SetSize updates the form width
func (v EditorView) SetSize(width, height int) EditorView {
	v.width = width
	inner := width - 6
	if inner < 10 {
		inner = 10
	}
	v.title.Width = inner
	v.tags.Width = inner
	v.description.SetWidth(inner)
	return v
}

// Draft returns the form contents as a draft. Only interval times that
// cannot be read fail here; everything else is validated on submit.
// Editing always sends the intervals, adding only when rows were added.
func (v EditorView) Draft() (tracker.Draft, error) {
	d := tracker.Draft{
		ID:          v.draftID,
		Title:       v.title.Value(),
		Description: v.description.Value(),
		Size:        v.size.String(),
		Tags:        v.tags.Value(),
	}
	if v.IsNew() && len(v.spans) == 0 {
		return d, nil
	}
	d.Spans = make([]model.TimeSpan, 0, len(v.spans))
	for i, row := range v.spans {
		span, err := row.span()
		if err != nil {
			return d, fmt.Errorf("interval %d %w", i+1, err)
		}
		d.Spans = append(d.Spans, span)
	}
	return d, nil
}

// focusCount is the number of focusable inputs, interval rows included
func (v EditorView) focusCount() editorField {
	return fieldSpans + editorField(2*len(v.spans))
}

// spanAt returns the row and column (0 start, 1 end) of a focus index
func spanAt(f editorField) (row, col int) {
	i := int(f - fieldSpans)
	return i / 2, i % 2
}

// errKey is where an input's validation message is shown
func errKey(f editorField) editorField {
	if f >= fieldSpans {
		return fieldSpans
	}
	return f
}

// Init starts the cursor blink
func (v EditorView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys for the form. Saving is asynchronous: the result
// arrives as a draftSubmittedMsg that the owner routes back here on error.
func (v EditorView) Update(msg tea.Msg) (EditorView, tea.Cmd) {
	switch msg := msg.(type) {
	case draftSubmittedMsg:
		v.submitting = false
		if msg.err == nil {
			return v, nil
		}
		var ve *model.ValidationError
		if errors.As(msg.err, &ve) {
			if f := fieldFor(ve.Field); f >= 0 {
				v.errs[f] = ve.Message
				if f == fieldSpans && len(v.spans) == 0 {
					return v, nil
				}
				cmd := v.setFocus(f)
				return v, cmd
			}
			v.formErr = ve.Error()
			return v, nil
		}
		v.formErr = msg.err.Error()
		return v, errCmd(msg.err)

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return editorClosedMsg{} }
		case "ctrl+s":
			return v.submit()
		case "tab":
			cmd := v.setFocus((v.focus + 1) % v.focusCount())
			return v, cmd
		case "shift+tab":
			n := v.focusCount()
			cmd := v.setFocus((v.focus + n - 1) % n)
			return v, cmd
		case "ctrl+n":
			v.spans = append(append([]spanRow(nil), v.spans...), newSpanRow(model.TimeSpan{}))
			delete(v.errs, fieldSpans)
			cmd := v.setFocus(v.focusCount() - 2)
			return v, cmd
		case "ctrl+x":
			if v.focus < fieldSpans {
				return v, nil
			}
			row, _ := spanAt(v.focus)
			rows := append([]spanRow(nil), v.spans[:row]...)
			v.spans = append(rows, v.spans[row+1:]...)
			delete(v.errs, fieldSpans)
			next := fieldDescription
			if len(v.spans) > 0 {
				next = fieldSpans + editorField(2*min(row, len(v.spans)-1))
			}
			cmd := v.setFocus(next)
			return v, cmd
		case "enter":
			if v.focus != fieldDescription {
				return v.submit()
			}
		case "up":
			if v.focus != fieldDescription && v.focus > fieldTitle {
				cmd := v.setFocus(v.focus - 1)
				return v, cmd
			}
		case "down":
			if v.focus != fieldDescription && v.focus < v.focusCount()-1 {
				cmd := v.setFocus(v.focus + 1)
				return v, cmd
			}
		}

		if v.focus == fieldSize {
			switch msg.String() {
			case "left", "h":
				v.size = v.size.Prev()
				delete(v.errs, fieldSize)
			case "right", "l", " ":
				v.size = v.size.Next()
				delete(v.errs, fieldSize)
			}
			return v, nil
		}
		delete(v.errs, errKey(v.focus))
	}

	var cmd tea.Cmd
	switch {
	case v.focus == fieldTitle:
		v.title, cmd = v.title.Update(msg)
	case v.focus == fieldTags:
		v.tags, cmd = v.tags.Update(msg)
	case v.focus == fieldDescription:
		v.description, cmd = v.description.Update(msg)
	case v.focus >= fieldSpans && v.focus < v.focusCount():
		row, col := spanAt(v.focus)
		// copy before writing back so earlier View copies keep their rows
		rows := append([]spanRow(nil), v.spans...)
		if col == 0 {
			rows[row].start, cmd = rows[row].start.Update(msg)
		} else {
			rows[row].end, cmd = rows[row].end.Update(msg)
		}
		v.spans = rows
	}
	return v, cmd
}

func (v *EditorView) setFocus(f editorField) tea.Cmd {
	v.focus = f
	v.title.Blur()
	v.tags.Blur()
	v.description.Blur()
	rows := append([]spanRow(nil), v.spans...)
	for i := range rows {
		rows[i].start.Blur()
		rows[i].end.Blur()
	}
	v.spans = rows

	switch {
	case f == fieldTitle:
		return v.title.Focus()
	case f == fieldTags:
		return v.tags.Focus()
	case f == fieldDescription:
		return v.description.Focus()
	case f >= fieldSpans && f < v.focusCount():
		row, col := spanAt(f)
		if col == 0 {
			return v.spans[row].start.Focus()
		}
		return v.spans[row].end.Focus()
	}
	return nil
}

func (v EditorView) submit() (EditorView, tea.Cmd) {
	v.errs = make(map[editorField]string)
	v.formErr = ""

	d, err := v.Draft()
	if err != nil {
		v.errs[fieldSpans] = err.Error()
		return v, nil
	}
	v.submitting = true

	ctx, editor := v.ctx, v.editor
	return v, func() tea.Msg {
		task, err := editor.Submit(ctx, d)
		return draftSubmittedMsg{task: task, isNew: d.IsNew(), err: err}
	}
}

// View renders the form
func (v EditorView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder
	heading := "Edit task"
	if v.IsNew() {
		heading = "New task"
	}
	b.WriteString(styles.Title.Render(heading))
	b.WriteString("\n")

	if v.formErr != "" {
		b.WriteString(styles.FieldError.Render(v.formErr))
		b.WriteString("\n\n")
	}

	for f := fieldTitle; f < fieldSpans; f++ {
		b.WriteString(styles.Label.Render(f.label()))
		b.WriteString("\n")

		box := styles.Input
		if f == v.focus {
			box = styles.InputFocused
		}
		b.WriteString(box.Render(v.fieldView(f, t)))
		b.WriteString("\n")

		if msg, ok := v.errs[f]; ok {
			b.WriteString(styles.FieldError.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString(v.intervalsView())

	b.WriteString("\n")
	hint := "tab next • ←/→ size • enter save • ctrl+s save • esc discard"
	if v.submitting {
		hint = "Saving..."
	}
	b.WriteString(styles.HelpDesc.Render(hint))
	return b.String()
}

func (v EditorView) fieldView(f editorField, t theme.Theme) string {
	switch f {
	case fieldTitle:
		return v.title.View()
	case fieldTags:
		return v.tags.View()
	case fieldDescription:
		return v.description.View()
	case fieldSize:
		label := lipgloss.NewStyle().Foreground(t.SizeColor(v.size)).Bold(true).Render(v.size.String())
		if v.focus == fieldSize {
			return "◀ " + label + " ▶"
		}
		return "  " + label
	}
	return ""
}

// intervalsView renders one row per tracked interval. Rows without an end
// are marked running.
func (v EditorView) intervalsView() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder
	b.WriteString(styles.Label.Render(fieldSpans.label()))
	b.WriteString(" ")
	b.WriteString(styles.Subtitle.Render("ctrl+n add • ctrl+x remove"))
	b.WriteString("\n")

	if len(v.spans) == 0 {
		b.WriteString(styles.HelpDesc.Render("  No time tracked"))
		b.WriteString("\n")
	}

	for i, row := range v.spans {
		marker := "  "
		if v.focus >= fieldSpans {
			if r, _ := spanAt(v.focus); r == i {
				marker = lipgloss.NewStyle().Foreground(t.Primary).Render("› ")
			}
		}

		status := "  "
		if row.running() {
			status += styles.TaskRunning.Render("● running")
		} else if span, err := row.span(); err == nil {
			status += styles.Elapsed.Render(model.FormatDuration(span.Duration()))
		}

		b.WriteString(marker + row.start.View() + styles.HelpDesc.Render(" → ") + row.end.View() + status)
		b.WriteString("\n")
	}

	if msg, ok := v.errs[fieldSpans]; ok {
		b.WriteString(styles.FieldError.Render(msg))
		b.WriteString("\n")
	}
	return b.String()
}
