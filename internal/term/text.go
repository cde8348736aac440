package term

import "fmt"

// Emoji prefixes for CLI status lines.
const (
	EmojiMagnifier = "🔍 "
	EmojiTruck     = "🚚 "
	EmojiPackage   = "📦 "
)

// Pluralize returns base+singular when count is 1 and base+plural
// otherwise.
func Pluralize(base, singular, plural string, count int) string {
	if count == 1 {
		return base + singular
	}
	return base + plural
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
		tb = gb * 1024
	)

	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
