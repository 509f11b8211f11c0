package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/racketdesk/stringdesk/internal/export"
	"github.com/racketdesk/stringdesk/internal/models"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

func printOrders(w io.Writer, output string, orders []models.Order) error {
	switch output {
	case "json":
		return export.Write(w, export.FormatJSON, orders)
	case "yaml":
		return export.Write(w, export.FormatYAML, orders)
	}

	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders")
		return err
	}

	_, err := fmt.Fprintln(w, ordersTable(orders).Render())
	return err
}

func ordersTable(orders []models.Order) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CREATED", "STATUS", "CUSTOMER", "CONTACT", "RACKET", "STRING", "SERVICE", "NOTES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, order := range orders {
		t.Row(
			order.ID,
			order.CreatedAt.Local().Format(time.DateTime),
			string(order.Status),
			order.CustomerName,
			order.ContactNumber,
			strings.TrimSpace(order.RacketBrand+" "+order.RacketModel),
			order.StringType,
			order.ServiceType,
			strings.ReplaceAll(order.AdditionalNotes, "\n", " "),
		)
	}
	return t
}

func printCounts(w io.Writer, counts map[models.OrderStatus]int) {
	parts := make([]string, 0, len(models.StatusSequence))
	for _, status := range models.StatusSequence {
		parts = append(parts, fmt.Sprintf("%s: %d", status, counts[status]))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}
