package search

import "github.com/mmakkena/medcodeapi/core"

// SelectText picks the text variant a caller may see. The restricted variant
// is returned only when the record's license status is open or the caller is
// licensed; in every other case the paraphrased text is returned. An empty
// restricted text means no license is held for the record and the paraphrase
// is used regardless.
//
// This rule has no exceptions and is applied as the very last step before a
// result leaves the engine.
func SelectText(record *core.CodeRecord, licensed bool) string {
	if record.RestrictedText == "" {
		return record.ParaphrasedText
	}
	if record.License == core.LicenseOpen || licensed {
		return record.RestrictedText
	}
	return record.ParaphrasedText
}
