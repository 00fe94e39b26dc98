package mysqldb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type SettingsDB struct {
	sess db.Session
}

func getSettingsDB(sess db.Session) *SettingsDB {
	return &SettingsDB{sess}
}

const reportThresholdPrefix = "report_threshold."

// GetModSettings reads the moderation settings rows. Every call hits the
// store: operators change thresholds live and the engine must see them on
// the next evaluation.
func (sdb *SettingsDB) GetModSettings(ctx context.Context) (*model.ModSettings, error) {
	var rows []struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}
	if err := sdb.sess.SQL().
		Select("name", "value").
		From("setting").
		Where("name LIKE ?", reportThresholdPrefix+"%").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	thresholds := make(map[model.ContentKind]int64)
	for _, row := range rows {
		kind := model.ContentKind(strings.TrimPrefix(row.Name, reportThresholdPrefix))
		if !kind.IsValid() {
			continue
		}
		threshold, err := strconv.ParseInt(row.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed setting %v: %w", row.Name, err)
		}
		thresholds[kind] = threshold
	}
	return &model.ModSettings{ReportThresholds: thresholds}, nil
}

func (sdb *SettingsDB) SetModSetting(ctx context.Context, kind model.ContentKind, threshold int64) error {
	_, err := sdb.sess.SQL().ExecContext(ctx, `
INSERT INTO setting (name, value) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		reportThresholdPrefix+string(kind), strconv.FormatInt(threshold, 10))
	return err
}
