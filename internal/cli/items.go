package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pasperfection/checklist/internal/checklist"
	"github.com/pasperfection/checklist/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Create, inspect and mutate checklist items",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsCompleteCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsNoteCmd(app))
	cmd.AddCommand(newItemsTagCmd(app))
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var (
		parentID string
		priority string
		dueDate  string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a new item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := rt.store.CreateChild(parentID, args[0])
			if err != nil {
				return err
			}
			if priority != "" {
				if !model.ValidPriority(priority) {
					return fmt.Errorf("invalid priority %q (high, medium, low)", priority)
				}
				rt.store.SetPriority(it.ID, priority)
			}
			if dueDate != "" {
				due, err := time.Parse("2006-01-02", dueDate)
				if err != nil {
					return fmt.Errorf("invalid due date %q, use YYYY-MM-DD", dueDate)
				}
				rt.store.SetDueDate(it.ID, &due)
			}
			for _, tag := range tags {
				rt.store.AddTag(it.ID, tag)
			}
			rt.persist()
			rt.tracker.Track("item_created", map[string]string{"priority": priority})

			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent item id (omit for a root item)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (high, medium, low)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var showIDs bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the checklist tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			items := rt.store.Items()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "checklist is empty")
				return nil
			}
			printTree(cmd, items, 0, showIDs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show item ids")
	return cmd
}

func printTree(cmd *cobra.Command, items []*model.Item, depth int, showIDs bool) {
	out := cmd.OutOrStdout()
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		line := indent + box
		if it.Priority != model.PriorityNone {
			line += " [" + strings.ToUpper(it.Priority) + "]"
		}
		line += " " + it.Label
		if it.DueDate != nil {
			line += " (due " + it.DueDate.Format("2006-01-02") + ")"
		}
		if len(it.Tags) > 0 {
			line += " #" + strings.Join(it.Tags, " #")
		}
		if showIDs {
			line += "  " + it.ID
		}
		fmt.Fprintln(out, line)
		printTree(cmd, it.Children, depth+1, showIDs)
	}
}

func newItemsCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <item-id>",
		Short: "Toggle an item's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.ToggleComplete(it.ID)
			rt.persist()
			rt.tracker.Track("item_completed", nil)

			state := "pending"
			if rt.store.Find(it.ID).Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", it.Label, state)
			return nil
		},
	}
}

func newItemsEditCmd(app *App) *cobra.Command {
	var (
		label    string
		priority string
		dueDate  string
		clearDue bool
	)
	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Edit an item's label, priority or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			if label != "" {
				rt.store.Edit(it.ID, label)
			}
			if cmd.Flags().Changed("priority") {
				if !model.ValidPriority(priority) {
					return fmt.Errorf("invalid priority %q (high, medium, low, or empty to clear)", priority)
				}
				rt.store.SetPriority(it.ID, priority)
			}
			if clearDue {
				rt.store.SetDueDate(it.ID, nil)
			} else if dueDate != "" {
				due, err := time.Parse("2006-01-02", dueDate)
				if err != nil {
					return fmt.Errorf("invalid due date %q, use YYYY-MM-DD", dueDate)
				}
				rt.store.SetDueDate(it.ID, &due)
			}
			rt.persist()
			rt.tracker.Track("item_edited", nil)

			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "New label")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (empty clears)")
	cmd.Flags().StringVar(&dueDate, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			removed := model.Count([]*model.Item{it})
			rt.store.Delete(it.ID)
			rt.persist()
			rt.tracker.Track("item_deleted", nil)

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d item(s)\n", removed)
			return nil
		},
	}
}

var moveDirections = map[string]checklist.MoveDirection{
	"up":      checklist.MoveUp,
	"down":    checklist.MoveDown,
	"indent":  checklist.MoveIndent,
	"outdent": checklist.MoveOutdent,
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <up|down|indent|outdent>",
		Short: "Reorder an item among its siblings or change its depth",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := moveDirections[args[1]]
			if !ok {
				return fmt.Errorf("invalid direction %q (up, down, indent, outdent)", args[1])
			}
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.Move(it.ID, dir)
			rt.persist()

			fmt.Fprintf(cmd.OutOrStdout(), "moved %s %s\n", it.Label, args[1])
			return nil
		},
	}
}

func newItemsNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage an item's notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <item-id> <text>",
		Short: "Attach a note to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.AddNote(it.ID, args[1])
			rt.persist()
			rt.tracker.Track("note_added", nil)
			fmt.Fprintln(cmd.OutOrStdout(), "note added")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <item-id>",
		Short: "Print an item's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			if len(it.Notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no notes")
				return nil
			}
			for _, n := range it.Notes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02"), n.Text)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <item-id> <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.DeleteNote(it.ID, args[1])
			rt.persist()
			fmt.Fprintln(cmd.OutOrStdout(), "note removed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <item-id>",
		Short: "Delete all of an item's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.ClearNotes(it.ID)
			rt.persist()
			fmt.Fprintln(cmd.OutOrStdout(), "notes cleared")
			return nil
		},
	})

	return cmd
}

func newItemsTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage an item's tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <item-id> <tag>",
		Short: "Add a tag to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.AddTag(it.ID, args[1])
			rt.persist()
			fmt.Fprintln(cmd.OutOrStdout(), "tag added")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <item-id> <tag>",
		Short: "Remove a tag from an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.close()

			it, err := findItem(rt, args[0])
			if err != nil {
				return err
			}
			rt.store.RemoveTag(it.ID, args[1])
			rt.persist()
			fmt.Fprintln(cmd.OutOrStdout(), "tag removed")
			return nil
		},
	})

	return cmd
}

// findItem resolves an item by exact id, falling back to a unique
// label match so ids do not have to be copied around for small lists.
func findItem(rt *runtime, ref string) (*model.Item, error) {
	if it := rt.store.Find(ref); it != nil {
		return it, nil
	}

	var matches []*model.Item
	model.Walk(rt.store.Items(), func(it *model.Item) {
		if strings.EqualFold(it.Label, ref) {
			matches = append(matches, it)
		}
	})
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no item with id or label %q", ref)
	case 1:
		// Re-resolve on the live tree; Items() returned a copy.
		return rt.store.Find(matches[0].ID), nil
	default:
		return nil, fmt.Errorf("label %q is ambiguous (%d matches), use the id", ref, len(matches))
	}
}
