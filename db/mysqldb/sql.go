package mysqldb

import (
	"encoding/json"
	"strconv"

	db2 "github.com/seafarer/shipboard-be/db"
)

const maxTxAttempts = 3

// withRetry re-runs a transactional read-modify-write that lost a lock
// race. Contention on hot group/content rows is expected, not a logic
// error, so a bounded number of attempts is made before surfacing.
func withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = op()
		if err == nil || !db2.IsRetryableErr(err) {
			return err
		}
	}
	return err
}

// formatId renders an integer content id into the opaque string form used
// by the report/audit tables.
func formatId(id int64) string {
	return strconv.FormatInt(id, 10)
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	return string(raw), err
}

func decodeImages(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, err
	}
	return images, nil
}
