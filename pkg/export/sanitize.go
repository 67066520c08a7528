package export

import "strings"

// invalidStemRunes are characters illegal in path components on at least
// one supported platform, plus the fullwidth bar YouTube titles often use.
const invalidStemRunes = `\/:*?"<>|｜`

// SanitizeStem normalizes a video title into a filesystem-safe artifact
// stem. The same stem is used for every artifact of a run, so transcript
// and comment outputs always share a name.
func SanitizeStem(title string) string {
	var b strings.Builder
	for _, r := range title {
		if strings.ContainsRune(invalidStemRunes, r) {
			continue
		}
		b.WriteRune(r)
	}
	stem := strings.TrimSpace(b.String())
	if stem == "" {
		return "untitled"
	}
	return stem
}
