package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// NotificationHeader is the CSV header for exported notifications.
const NotificationHeader = "timestamp,message"

// WriteNotifications writes the activity log to w (including header).
func WriteNotifications(w io.Writer, notes []model.Notification) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(NotificationHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, n := range notes {
		if err := cw.Write([]string{n.Timestamp.Format(time.RFC3339), n.Message}); err != nil {
			return fmt.Errorf("writing notification %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadNotifications reads notifications written by WriteNotifications.
func ReadNotifications(r io.Reader) ([]model.Notification, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading notifications CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var notes []model.Notification
	for i, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing timestamp %q: %w", i+2, rec[0], err)
		}
		notes = append(notes, model.Notification{Timestamp: ts, Message: rec[1]})
	}
	return notes, nil
}
