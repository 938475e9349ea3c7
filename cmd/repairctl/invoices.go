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

func newInvoicesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Invoice maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "overdue",
		Short: "List unpaid invoices past their due date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := newInvoiceService(e).ListOverdue(systemContext(cmd.Context()))
			if err != nil {
				return fmt.Errorf("failed to list overdue invoices: %w", err)
			}
			renderInvoices(cmd.OutOrStdout(), invoices)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag sent invoices past their due date as overdue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			marked, err := newInvoiceService(e).MarkOverdue(systemContext(cmd.Context()))
			if err != nil {
				return fmt.Errorf("failed to mark overdue invoices: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d invoice(s) overdue\n", marked)
			return nil
		},
	})

	return cmd
}

// newInvoiceService builds an invoice service without metrics
func newInvoiceService(e *env) *service.InvoiceService {
	activity := service.NewActivityService(repository.NewActivityRepository(e.db), e.log)
	return service.NewInvoiceService(
		repository.NewInvoiceRepository(e.db),
		repository.NewScopeRepository(e.db),
		repository.NewQuotationRepository(e.db),
		repository.NewRepairRepository(e.db),
		service.NewSettingsService(repository.NewSettingsRepository(e.db), e.cfg.Company, e.log),
		service.NewNumberSequenceService(repository.NewNumberSequenceRepository(e.db), e.log),
		service.NewNotificationService(repository.NewNotificationRepository(e.db), repository.NewUserRepository(e.db), e.log),
		activity,
		nil,
		e.log,
	)
}

func renderInvoices(w io.Writer, invoices []domain.InvoiceDTO) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Number", "Status", "Invoice date", "Due date", "Total due"})
	table.SetBorder(false)
	for _, inv := range invoices {
		table.Append([]string{
			inv.InvoiceNumber,
			string(inv.Status),
			inv.InvoiceDate,
			inv.DueDate,
			strconv.FormatFloat(inv.TotalDue, 'f', 2, 64),
		})
	}
	table.SetFooter([]string{"", "", "", "Count", strconv.Itoa(len(invoices))})
	table.Render()
}
