package services

import (
	"context"

	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
)

// Settings resolves live moderation configuration. Handlers call Resolve at
// the start of an operation and pass the returned value down, so each
// operation behaves as a pure function of the settings it saw — there is no
// process-wide mutable settings state.
type Settings struct {
	db db.SettingsDatabase
}

func NewSettings(db db.SettingsDatabase) *Settings {
	return &Settings{db: db}
}

func (s *Settings) Resolve(ctx context.Context) (*model.ModSettings, error) {
	return s.db.GetModSettings(ctx)
}

func (s *Settings) SetReportThreshold(ctx context.Context, kind model.ContentKind, threshold int64) error {
	return s.db.SetModSetting(ctx, kind, threshold)
}
