package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdForDefaults(t *testing.T) {
	var settings *ModSettings
	assert.Equal(t, int64(3), settings.ThresholdFor(KindStreamPost))
	assert.Equal(t, int64(5), settings.ThresholdFor(KindProfile))
}

func TestThresholdForOverride(t *testing.T) {
	settings := &ModSettings{
		ReportThresholds: map[ContentKind]int64{
			KindStreamPost: 10,
		},
	}
	assert.Equal(t, int64(10), settings.ThresholdFor(KindStreamPost))
	assert.Equal(t, int64(3), settings.ThresholdFor(KindForumPost), "unset kinds fall back")
}
