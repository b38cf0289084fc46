package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/pkg/types"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show, create and import plans",
	}
	cmd.AddCommand(newPlanShowCmd(a), newPlanInitCmd(a), newPlanImportCmd(a))
	return cmd
}

func newPlanShowCmd(a *app) *cobra.Command {
	var bf boardFlags
	var lanes bool

	cmd := &cobra.Command{
		Use:   "show <mode/name>",
		Short: "Print a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
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

			if a.flagJSON {
				data, err := codec.Marshal(plan)
				if err != nil {
					return sysError(err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			w := cmd.OutOrStdout()
			if lanes {
				adapter, err := bf.adapter(cmd)
				if err != nil {
					return err
				}
				writeLanes(w, board.Partition(adapter.Cards(plan)))
				return nil
			}
			writePlan(w, ref, plan, rev)
			return nil
		},
	}

	bf.register(cmd)
	cmd.Flags().BoolVar(&lanes, "lanes", false, "print the board columns instead of the phases")
	return cmd
}

func writePlan(w io.Writer, ref types.ProjectRef, plan *types.Plan, rev string) {
	name := plan.ProjectName
	if name == "" {
		name = ref.Name
	}
	fmt.Fprintf(w, "Project:   %s (%s)\n", name, ref)
	if plan.Description != "" {
		fmt.Fprintf(w, "About:     %s\n", plan.Description)
	}
	fmt.Fprintf(w, "Revision:  %s\n", rev)

	for _, ph := range plan.Phases {
		fmt.Fprintf(w, "\nPhase %d: %s [%s]", ph.PhaseNumber, ph.Title, ph.Status)
		if ph.Duration != "" {
			fmt.Fprintf(w, " (%s)", ph.Duration)
		}
		fmt.Fprintln(w)
		if ph.Description != "" {
			fmt.Fprintf(w, "  %s\n", ph.Description)
		}
		for _, t := range ph.Checklist {
			fmt.Fprintf(w, "  %-12s %s  %s", "["+t.Status+"]", t.ID, t.Description)
			var tags []string
			for _, tag := range []string{t.Category, t.Priority} {
				if tag != "" {
					tags = append(tags, tag)
				}
			}
			if len(tags) > 0 {
				fmt.Fprintf(w, " (%s)", strings.Join(tags, ", "))
			}
			fmt.Fprintln(w)
		}
	}
}

func writeLanes(w io.Writer, lanes []board.Lane) {
	for i, lane := range lanes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", lane.Column.Title(), len(lane.Cards))
		for _, c := range lane.Cards {
			fmt.Fprintf(w, "  %s  %s\n", c.ID, c.Title)
		}
	}
}

func newPlanInitCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		phases      []string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init <mode/name>",
		Short: "Create an empty plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
			}
			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			_, rev, err := s.GetPlan(cmd.Context(), ref)
			switch {
			case err == nil && !force:
				return userError(fmt.Errorf("plan %s already exists (use --force to replace it)", ref))
			case err != nil && !errors.Is(err, types.ErrNotFound):
				return classify(err)
			}

			if title == "" {
				title = ref.Name
			}
			plan := &types.Plan{ProjectName: title, Description: description, Phases: []types.Phase{}}
			for i, name := range phases {
				plan.Phases = append(plan.Phases, types.Phase{
					PhaseNumber: i + 1,
					Title:       name,
					Status:      types.StatusPending,
					Checklist:   []types.Task{},
				})
			}

			newRev, err := s.PutPlan(cmd.Context(), ref, plan, rev)
			if err != nil {
				return classify(err)
			}
			if a.flagJSON {
				return printJSON(cmd, map[string]string{"project": ref.String(), "revision": newRev})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s with %d phases\n", ref, len(plan.Phases))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "project name stored in the plan (default: the project name)")
	cmd.Flags().StringVar(&description, "description", "", "plan description")
	cmd.Flags().StringSliceVar(&phases, "phases", nil, "comma-separated phase titles")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing plan")
	return cmd
}

func newPlanImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <mode/name> [file]",
		Short: "Store a plan document read from a file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
			}

			var data []byte
			if len(args) == 2 {
				data, err = os.ReadFile(args[1])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return userError(fmt.Errorf("read plan: %w", err))
			}
			plan, err := codec.Unmarshal(data)
			if err != nil {
				return userError(err)
			}
			if err := plan.Validate(); err != nil {
				return userError(err)
			}

			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			rev, err := s.PutPlan(cmd.Context(), ref, plan, "")
			if err != nil {
				return classify(err)
			}
			if a.flagJSON {
				return printJSON(cmd, map[string]string{"project": ref.String(), "revision": rev})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported plan %s\n", ref)
			return nil
		},
	}
}
