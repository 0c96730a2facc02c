package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var Formats = []string{FormatJSON, FormatCSV}

const listSeparator = "; "

type Metadata struct {
	ExportDate  time.Time      `json:"exportDate"`
	RecordCount int            `json:"recordCount"`
	Filters     map[string]any `json:"filters"`
}

type Envelope struct {
	Metadata Metadata `json:"metadata"`
	Data     any      `json:"data"`
}

// Table is a header plus rows of raw values, formatted on write.
type Table struct {
	Header []string
	Rows   [][]any
}

// WriteCSV writes the header and one line per row. Quoting of commas,
// quotes and newlines is left to encoding/csv.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}

	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatValue(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the metadata envelope around data.
func WriteJSON(w io.Writer, meta Metadata, data any) error {
	if meta.Filters == nil {
		meta.Filters = map[string]any{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Envelope{Metadata: meta, Data: data})
}

// FormatValue renders a single CSV cell.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case *int:
		if val == nil {
			return ""
		}
		return strconv.Itoa(*val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', -1, 64)
	case []string:
		return strings.Join(val, listSeparator)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, listSeparator)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Filename is "{resource}-export-{YYYY-MM-DD}.{format}".
func Filename(resource, format string, date time.Time) string {
	return fmt.Sprintf("%s-export-%s.%s", resource, date.Format("2006-01-02"), format)
}

// ContentType returns the response media type for a format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}
