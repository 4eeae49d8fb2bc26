package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency renders a value in Brazilian real format: "R$ 1.234,56".
func FormatCurrency(value float64) string {
	negative := value < 0
	cents := int64(math.Round(math.Abs(value) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		grouped.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteString(digits[i : i+3])
	}

	sign := ""
	if negative && cents != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}

// FormatCell renders a report cell for display: numbers become currency
// unless the header is a plain-name column, everything else passes through.
func FormatCell(header string, value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		key := NormalizeHeader(header)
		if key == "produto" || key == "item" {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return FormatCurrency(v)
	case int:
		return strconv.Itoa(v)
	case string:
		if v == "" {
			return "---"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// rawCell renders a cell for machine export: plain decimal numbers, empty
// string for nil.
func rawCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
