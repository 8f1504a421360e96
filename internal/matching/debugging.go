package matching

import (
	"log/slog"

	"github.com/davecgh/go-spew/spew"
)

// DumpConfig logs an exhaustive dump of the matching configuration at debug
// level. Useful when reconciling two runs that should have been identical.
func DumpConfig(logger *slog.Logger, config MatchingConfig) {
	logger.Debug("matching configuration dump", "config", spew.Sdump(config))
}

// DumpAttributes logs the first few extracted rows of a batch at debug
// level, enough to spot column mix-ups without flooding the log.
func DumpAttributes(logger *slog.Logger, label string, attrs *ExtractedAttributes) {
	const sample = 5
	n := attrs.Len()
	if n > sample {
		head := &ExtractedAttributes{
			PNRs:        attrs.PNRs[:sample],
			BirthDates:  attrs.BirthDates[:sample],
			Genders:     attrs.Genders[:sample],
			FamilySizes: attrs.FamilySizes[:sample],
			Indices:     attrs.Indices[:sample],
		}
		logger.Debug("attribute sample", "label", label, "rows", n, "head", spew.Sdump(head))
		return
	}
	logger.Debug("attribute sample", "label", label, "rows", n, "head", spew.Sdump(attrs))
}
