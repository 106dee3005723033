package adventures

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ToInt parses a form value as an integer. Empty or malformed input yields
// fallback. Fractional numbers are truncated.
func ToInt(s string, fallback int) int {
	if v, ok := parseInt(s); ok {
		return v
	}
	return fallback
}

// ToOptionalInt parses a form value as an optional integer: empty or
// malformed input yields nil.
func ToOptionalInt(s string) *int {
	if v, ok := parseInt(s); ok {
		return &v
	}
	return nil
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// FormatInt renders an integer for a form field.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatOptionalInt renders an optional integer; nil becomes "".
func FormatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatRef renders a foreign key for a select; nil and zero become "".
func FormatRef(v *int) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.Itoa(*v)
}

// SerializeTags splits a comma separated list, trimming blanks.
func SerializeTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FormatTags joins tags for a text input.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// Titled is implemented by every entity with a display title.
type Titled interface {
	DisplayTitle() string
}

// DefaultSortLocale is the collation used when none is configured.
const DefaultSortLocale = "ru"

var (
	sortLocaleMu sync.RWMutex
	sortLocale   = language.Russian
)

// SetSortLocale changes the collation used by SortByTitle. Unknown tags
// keep the current locale and return false.
func SetSortLocale(tag string) bool {
	t, err := language.Parse(tag)
	if err != nil {
		return false
	}
	sortLocaleMu.Lock()
	sortLocale = t
	sortLocaleMu.Unlock()
	return true
}

// SortByTitle returns a copy of items ordered by title using the
// configured locale's collation.
func SortByTitle[T Titled](items []T) []T {
	sortLocaleMu.RLock()
	tag := sortLocale
	sortLocaleMu.RUnlock()

	// collate.Collator is not safe for concurrent use.
	col := collate.New(tag)

	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].DisplayTitle(), out[j].DisplayTitle()) < 0
	})
	return out
}
