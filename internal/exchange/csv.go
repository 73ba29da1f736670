package exchange

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
)

var csvHeader = []string{"Label", "Status", "Priority", "Due Date", "Tags", "Notes", "Parent"}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// marshalCSV flattens the tree depth-first, one row per item. Children
// reference their parent by label, tags and note texts are joined with
// semicolons.
func marshalCSV(items []*model.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	var write func(list []*model.Item, parentLabel string) error
	write = func(list []*model.Item, parentLabel string) error {
		for _, it := range list {
			status := "Pending"
			if it.Completed {
				status = "Completed"
			}
			due := ""
			if it.DueDate != nil {
				due = it.DueDate.Format(dateLayout)
			}
			notes := make([]string, len(it.Notes))
			for i, n := range it.Notes {
				notes[i] = n.Text
			}
			row := []string{
				it.Label,
				status,
				titleCase(it.Priority),
				due,
				strings.Join(it.Tags, ";"),
				strings.Join(notes, ";"),
				parentLabel,
			}
			if err := w.Write(row); err != nil {
				return err
			}
			if err := write(it.Children, it.Label); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(items, ""); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// unmarshalCSV rebuilds the tree from rows. Parents are matched by
// label; when several items share a label the first occurrence wins.
// Rows naming an unknown parent become roots, and a parent reference
// that would close a cycle sends the later row to the root instead so
// no row is ever dropped.
func unmarshalCSV(data []byte) ([]*model.Item, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 && strings.EqualFold(records[0][0], "Label") {
		records = records[1:]
	}

	now := time.Now()
	type row struct {
		item   *model.Item
		parent string
	}
	var (
		rows    []row
		byLabel = map[string]*model.Item{}
		byID    = map[string]*model.Item{}
	)
	for i, rec := range records {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		field := func(n int) string {
			if n < len(rec) {
				return strings.TrimSpace(rec[n])
			}
			return ""
		}

		it := &model.Item{
			ID:        checklist.NewID(),
			Label:     field(0),
			CreatedAt: now,
			UpdatedAt: now,
		}
		switch strings.ToLower(field(1)) {
		case "completed", "done", "true", "x":
			it.Completed = true
			ts := now
			it.CompletedAt = &ts
		}
		if p := strings.ToLower(field(2)); model.ValidPriority(p) {
			it.Priority = p
		}
		if d := field(3); d != "" {
			due, err := time.Parse(dateLayout, d)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad due date %q", i+1, d)
			}
			it.DueDate = &due
		}
		for _, tag := range strings.Split(field(4), ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				it.Tags = append(it.Tags, tag)
			}
		}
		for _, text := range strings.Split(field(5), ";") {
			if text = strings.TrimSpace(text); text != "" {
				it.Notes = append(it.Notes, model.Note{
					ID:        uuid.New().String(),
					Text:      text,
					CreatedAt: now,
				})
			}
		}

		rows = append(rows, row{item: it, parent: field(6)})
		byID[it.ID] = it
		if _, ok := byLabel[it.Label]; !ok {
			byLabel[it.Label] = it
		}
	}

	// ancestorOf walks the links made so far to see whether it already
	// sits above candidate.
	ancestorOf := func(it, candidate *model.Item) bool {
		for p := candidate; p != nil; p = byID[p.ParentID] {
			if p == it {
				return true
			}
		}
		return false
	}

	var roots []*model.Item
	for _, rw := range rows {
		parent := byLabel[rw.parent]
		if rw.parent == "" || parent == nil || parent == rw.item || ancestorOf(rw.item, parent) {
			roots = append(roots, rw.item)
			continue
		}
		rw.item.ParentID = parent.ID
		parent.Children = append(parent.Children, rw.item)
	}
	return roots, nil
}
