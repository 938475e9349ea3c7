package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSequencesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequences",
		Short: "Inspect document numbering counters",
	}
	numbers := func() *service.NumberSequenceService {
		return service.NewNumberSequenceService(repository.NewNumberSequenceRepository(e.db), e.log)
	}
	kinds := sequenceKinds()

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the last issued number per prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sequences, err := numbers().List(systemContext(cmd.Context()))
			if err != nil {
				return fmt.Errorf("failed to list sequences: %w", err)
			}
			renderSequences(cmd.OutOrStdout(), sequences)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "show KIND",
		Short:     "Print the last issued number of one document kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := numbers().Current(systemContext(cmd.Context()), domain.SequenceKind(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), current)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "bump KIND VALUE",
		Short:     "Raise a counter after importing documents numbered elsewhere",
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return numbers().Bump(systemContext(cmd.Context()), domain.SequenceKind(args[0]), value)
		},
	})
	return cmd
}

func sequenceKinds() []string {
	defs := domain.AllSequences()
	kinds := make([]string, len(defs))
	for i, d := range defs {
		kinds[i] = string(d.Kind)
	}
	return kinds
}

func renderSequences(w io.Writer, sequences []domain.NumberSequenceDTO) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Prefix", "Last", "Updated"})
	table.SetBorder(false)
	for _, s := range sequences {
		table.Append([]string{s.Prefix, strconv.Itoa(s.LastSequence), s.UpdatedAt})
	}
	table.Render()
}
