package exchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
)

const markdownHeading = "# Implementation Checklist"

const dateLayout = "2006-01-02"

// marshalMarkdown renders the tree as a nested task list:
//
//	- [ ] [HIGH] label (Due: 2026-03-01) Tags: infra, urgent
//	  > a note
//	  - [x] child
func marshalMarkdown(items []*model.Item) ([]byte, error) {
	var b strings.Builder
	b.WriteString(markdownHeading + "\n\n")
	writeMarkdownItems(&b, items, 0)
	return []byte(b.String()), nil
}

func writeMarkdownItems(b *strings.Builder, items []*model.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		box := " "
		if it.Completed {
			box = "x"
		}
		b.WriteString(indent + "- [" + box + "]")
		if it.Priority != model.PriorityNone {
			b.WriteString(" [" + strings.ToUpper(it.Priority) + "]")
		}
		b.WriteString(" " + it.Label)
		if it.DueDate != nil {
			b.WriteString(" (Due: " + it.DueDate.Format(dateLayout) + ")")
		}
		if len(it.Tags) > 0 {
			b.WriteString(" Tags: " + strings.Join(it.Tags, ", "))
		}
		b.WriteString("\n")
		for _, n := range it.Notes {
			b.WriteString(indent + "  > " + n.Text + "\n")
		}
		writeMarkdownItems(b, it.Children, depth+1)
	}
}

// unmarshalMarkdown parses the task-list grammar back into a tree.
// Indentation is two spaces per level; note lines attach to the item
// parsed most recently.
func unmarshalMarkdown(data []byte) ([]*model.Item, error) {
	var (
		roots []*model.Item
		stack []*model.Item
		last  *model.Item
		now   = time.Now()
	)

	for lineNo, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		depth := (len(line) - len(trimmed)) / 2

		switch {
		case strings.HasPrefix(trimmed, "- ["):
			it, err := parseMarkdownItem(trimmed, now)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			if depth > len(stack) {
				depth = len(stack)
			}
			stack = stack[:depth]
			if depth == 0 {
				roots = append(roots, it)
			} else {
				parent := stack[depth-1]
				it.ParentID = parent.ID
				parent.Children = append(parent.Children, it)
			}
			stack = append(stack, it)
			last = it

		case strings.HasPrefix(trimmed, "> "):
			if last == nil {
				return nil, fmt.Errorf("line %d: note before any item", lineNo+1)
			}
			last.Notes = append(last.Notes, model.Note{
				ID:        uuid.New().String(),
				Text:      strings.TrimPrefix(trimmed, "> "),
				CreatedAt: now,
			})
		}
	}
	return roots, nil
}

func parseMarkdownItem(line string, now time.Time) (*model.Item, error) {
	rest, ok := strings.CutPrefix(line, "- [")
	if !ok || len(rest) < 2 || rest[1] != ']' {
		return nil, fmt.Errorf("malformed task line %q", line)
	}
	completed := rest[0] == 'x' || rest[0] == 'X'
	rest = strings.TrimSpace(rest[2:])

	it := &model.Item{
		ID:        checklist.NewID(),
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if completed {
		ts := now
		it.CompletedAt = &ts
	}

	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end > 0 {
			p := strings.ToLower(rest[1:end])
			if model.ValidPriority(p) && p != model.PriorityNone {
				it.Priority = p
				rest = strings.TrimSpace(rest[end+1:])
			}
		}
	}

	if idx := strings.LastIndex(rest, " Tags: "); idx >= 0 {
		for _, tag := range strings.Split(rest[idx+len(" Tags: "):], ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				it.Tags = append(it.Tags, tag)
			}
		}
		rest = strings.TrimSpace(rest[:idx])
	}

	if strings.HasSuffix(rest, ")") {
		if idx := strings.LastIndex(rest, "(Due: "); idx >= 0 {
			due, err := time.Parse(dateLayout, rest[idx+len("(Due: "):len(rest)-1])
			if err == nil {
				it.DueDate = &due
				rest = strings.TrimSpace(rest[:idx])
			}
		}
	}

	if rest == "" {
		return nil, fmt.Errorf("task line %q has no label", line)
	}
	it.Label = rest
	return it, nil
}
