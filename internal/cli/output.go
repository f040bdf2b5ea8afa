package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/infrastructure/storage"
)

// identityColumns precede the feature columns in CSV output.
var identityColumns = []string{"transaction_id", "user_id", "name"}

// WriteRows writes rows in the given format.
func WriteRows(w io.Writer, format string, rows []storage.FeatureRow) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSONLines(w, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteJSONLines writes one JSON object per row.
func WriteJSONLines(w io.Writer, rows []storage.FeatureRow) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes a header of the identity columns followed by every
// feature in features.Names() order. Booleans are written as 0/1 so the
// feature columns are all numeric.
func WriteCSV(w io.Writer, rows []storage.FeatureRow) error {
	names := features.Names()
	cw := csv.NewWriter(w)

	header := append(append([]string{}, identityColumns...), names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = row.TransactionID
		record[1] = row.UserID
		record[2] = row.Name
		for i, name := range names {
			record[len(identityColumns)+i] = formatValue(row.Features[name])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// PrintRunSummary prints a one-line summary of a stored run.
func PrintRunSummary(w io.Writer, run *storage.FeatureRun) {
	fmt.Fprintf(w, "Run %s: source=%s status=%s transactions=%d\n",
		run.ID, run.Source, run.Status, run.TransactionCount)
}
