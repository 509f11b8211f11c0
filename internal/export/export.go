package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/racketdesk/stringdesk/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

var csvHeader = []string{
	"id",
	"createdAt",
	"status",
	"customerName",
	"contactNumber",
	"email",
	"racketBrand",
	"racketModel",
	"stringType",
	"serviceType",
	"requestedTensionMains",
	"requestedTensionCross",
	"actualTensionMains",
	"actualTensionCross",
	"additionalNotes",
}

func ParseFormat(raw string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Formats {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", raw)
}

// FileName is the default download name, e.g. racket-orders-2025-08-01.csv.
func FileName(format Format, now time.Time) string {
	return fmt.Sprintf("racket-orders-%s.%s", now.Format(time.DateOnly), format)
}

func Write(w io.Writer, format Format, orders []models.Order) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, orders)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(nonNil(orders))
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(nonNil(orders)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV flattens line breaks in notes so every order stays on one line.
// Only cells holding a comma, a quote or a line break are quoted.
func WriteCSV(w io.Writer, orders []models.Order) error {
	if err := writeCSVRow(w, csvHeader); err != nil {
		return err
	}

	for _, order := range orders {
		record := []string{
			order.ID,
			order.CreatedAt.Format(time.RFC3339),
			string(order.Status),
			order.CustomerName,
			order.ContactNumber,
			order.Email,
			order.RacketBrand,
			order.RacketModel,
			order.StringType,
			order.ServiceType,
			formatTension(order.RequestedTensionMains),
			formatTension(order.RequestedTensionCross),
			formatTension(order.ActualTensionMains),
			formatTension(order.ActualTensionCross),
			flatten(order.AdditionalNotes),
		}
		if err := writeCSVRow(w, record); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRow(w io.Writer, cells []string) error {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = csvCell(cell)
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

func csvCell(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func formatTension(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func flatten(text string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
}

func nonNil(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
