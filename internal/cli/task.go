package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/internal/tui"
	"github.com/woolly-dev/woolly/pkg/types"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, move and edit checklist tasks",
	}
	cmd.AddCommand(newTaskAddCmd(a), newTaskMoveCmd(a), newTaskEditCmd(a))
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		phase    int
		id       string
		category string
		priority string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "add <mode/name> <description>",
		Short: "Add a task to a phase's checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
			}
			if !types.ValidPriority(priority) {
				return userError(fmt.Errorf("%w: %q (valid: low, medium, high)", types.ErrInvalidPriority, priority))
			}
			if id == "" {
				u, err := uuid.NewV7()
				if err != nil {
					return sysError(fmt.Errorf("generate id: %w", err))
				}
				id = u.String()
			}

			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			plan, rev, err := s.GetPlan(cmd.Context(), ref)
			if err != nil {
				return classify(err)
			}
			ph := plan.Phase(phase)
			if ph == nil {
				return userError(fmt.Errorf("plan %s has no phase %d", ref, phase))
			}
			task := types.Task{
				ID:          id,
				Category:    category,
				Description: args[1],
				Status:      board.NormalizeStatus(status),
				Priority:    priority,
			}
			ph.Checklist = append(ph.Checklist, task)
			if err := plan.Validate(); err != nil {
				return userError(err)
			}

			if _, err := s.PutPlan(cmd.Context(), ref, plan, rev); err != nil {
				return classify(err)
			}
			if a.flagJSON {
				return printJSON(cmd, task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to phase %d\n", id, phase)
			return nil
		},
	}

	cmd.Flags().IntVar(&phase, "phase", 1, "phase number to add the task to")
	cmd.Flags().StringVar(&id, "id", "", "task id (default: a new UUID)")
	cmd.Flags().StringVar(&category, "category", "", "task category")
	cmd.Flags().StringVar(&priority, "priority", types.PriorityMedium, "task priority: low, medium, high")
	cmd.Flags().StringVar(&status, "status", types.StatusToDo, "initial status")
	return cmd
}

func newTaskMoveCmd(a *app) *cobra.Command {
	var bf boardFlags

	cmd := &cobra.Command{
		Use:   "move <mode/name> <task-id> <column>",
		Short: "Move a task to to-do, in-progress, completed or blocked",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.moveCard(cmd, args[0], args[1], args[2], bf)
		},
	}
	bf.register(cmd)
	return cmd
}

// moveCard loads a board and moves one card, the way a drop on the board
// does.
func (a *app) moveCard(cmd *cobra.Command, refArg, id, colArg string, bf boardFlags) error {
	ref, err := types.ParseProjectRef(refArg)
	if err != nil {
		return userError(err)
	}
	col, err := types.ParseColumn(colArg)
	if err != nil {
		return userError(fmt.Errorf("%w: %q (valid: to-do, in-progress, completed, blocked)", err, colArg))
	}
	adapter, err := bf.adapter(cmd)
	if err != nil {
		return err
	}

	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	defer s.Detach()

	b, err := board.Load(cmd.Context(), s, ref, board.Options{Adapter: adapter, Logger: a.logger})
	if err != nil {
		return classify(err)
	}
	if err := b.Move(cmd.Context(), id, col); err != nil {
		return classify(err)
	}

	if a.flagJSON {
		return printJSON(cmd, map[string]string{
			"id":       id,
			"column":   string(col),
			"status":   board.CanonicalStatus(col),
			"revision": b.Revision(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", id, col.Title())
	return nil
}

func newTaskEditCmd(a *app) *cobra.Command {
	var description, category, priority string

	cmd := &cobra.Command{
		Use:   "edit <mode/name> <task-id>",
		Short: "Edit a task's description, category or priority",
		Long: "Edit a task. Without flags an interactive form is shown when stdin\n" +
			"is a terminal.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
			}
			id := args[1]

			var edit board.CardEdit
			if cmd.Flags().Changed("description") {
				edit.Title = &description
			}
			if cmd.Flags().Changed("category") {
				edit.Category = &category
			}
			if cmd.Flags().Changed("priority") {
				edit.Priority = &priority
			}
			if edit.IsZero() && !interactive() {
				return userError(errors.New("nothing to change: pass --description, --category or --priority"))
			}

			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			b, err := board.Load(cmd.Context(), s, ref, board.Options{Logger: a.logger})
			if err != nil {
				return classify(err)
			}

			if edit.IsZero() {
				card, ok := findCard(b.Cards(), id)
				if !ok {
					return userError(fmt.Errorf("%w: %s", types.ErrCardNotFound, id))
				}
				edit, err = tui.EditCardForm(card)
				if err != nil {
					return classify(err)
				}
				if edit.IsZero() {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes")
					return nil
				}
			}

			wt, err := b.Edit(id, edit)
			if err != nil {
				return classify(err)
			}
			if err := b.Commit(cmd.Context(), wt); err != nil {
				return classify(err)
			}

			if a.flagJSON {
				task, _, _ := b.Plan().FindTask(id)
				return printJSON(cmd, task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority: low, medium, high")
	return cmd
}

func findCard(cards []board.Card, id string) (board.Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return board.Card{}, false
}
