package model

// ModSettings is the live moderation configuration, resolved from the
// settings store at the start of each operation that needs it and passed
// down by value. Operators change these while the system is running, so
// nothing caches them.
type ModSettings struct {
	// ReportThresholds maps each content kind to the open-report count at
	// which content is auto-quarantined.
	ReportThresholds map[ContentKind]int64
}

// DefaultReportThresholds backs any kind missing a settings row.
var DefaultReportThresholds = map[ContentKind]int64{
	KindStreamPost: 3,
	KindForumPost:  3,
	KindGroupPost:  3,
	KindForum:      3,
	KindGroup:      3,
	KindProfile:    5,
}

// ThresholdFor returns the configured threshold for kind, falling back to
// the default table.
func (ms *ModSettings) ThresholdFor(kind ContentKind) int64 {
	if ms != nil && ms.ReportThresholds != nil {
		if t, ok := ms.ReportThresholds[kind]; ok {
			return t
		}
	}
	return DefaultReportThresholds[kind]
}
