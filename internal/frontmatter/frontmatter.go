package frontmatter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/karlseguin/typed"
)

// Recognized frontmatter keys.
const (
	KeySlug                 = "slug"
	KeyTitle                = "title"
	KeyExcerpt              = "excerpt"
	KeyDate                 = "date"
	KeyReadTime             = "readTime"
	KeyCategories           = "categories"
	KeyIcon                 = "icon"
	KeyIconColor            = "iconColor"
	KeyIsSeries             = "isSeries"
	KeyIsSeriesEntry        = "isSeriesEntry"
	KeySeriesSlug           = "seriesSlug"
	KeySeriesTitle          = "seriesTitle"
	KeyChapterTitle         = "chapterTitle"
	KeyChapterNumber        = "chapterNumber"
	KeyPreviousChapter      = "previousChapter"
	KeyPreviousChapterTitle = "previousChapterTitle"
	KeyNextChapter          = "nextChapter"
	KeyNextChapterTitle     = "nextChapterTitle"
)

// stringKeys are known keys whose values stay strings even when they read
// "true" or "false".
var stringKeys = map[string]bool{
	KeySlug:                 true,
	KeyTitle:                true,
	KeyExcerpt:              true,
	KeyDate:                 true,
	KeyReadTime:             true,
	KeyIcon:                 true,
	KeyIconColor:            true,
	KeySeriesSlug:           true,
	KeySeriesTitle:          true,
	KeyChapterTitle:         true,
	KeyPreviousChapter:      true,
	KeyPreviousChapterTitle: true,
	KeyNextChapter:          true,
	KeyNextChapterTitle:     true,
}

// knownKeys is every key with a dedicated Frontmatter field.
var knownKeys = func() map[string]bool {
	m := map[string]bool{
		KeyCategories:    true,
		KeyIsSeries:      true,
		KeyIsSeriesEntry: true,
		KeyChapterNumber: true,
	}
	for k := range stringKeys {
		m[k] = true
	}
	return m
}()

// Frontmatter is the normalized metadata of one post. Keys without a
// dedicated field are kept in Extra.
type Frontmatter struct {
	Slug          string
	Title         string
	Excerpt       string
	Date          string
	ReadTime      string
	Categories    []string
	Icon          string
	IconColor     string
	IsSeries      bool
	IsSeriesEntry bool
	SeriesSlug    string
	SeriesTitle   string
	ChapterTitle  string
	ChapterNumber *float64

	// Set by the compiler's series linking pass.
	PreviousChapter      string
	PreviousChapterTitle string
	NextChapter          string
	NextChapterTitle     string

	Extra map[string]any
}

// FromMap builds Frontmatter from decoded YAML or JSON. Values of the
// wrong type are converted where a sensible reading exists and ignored
// otherwise; FromMap never fails.
func FromMap(m map[string]any) Frontmatter {
	t := typed.New(m)

	fm := Frontmatter{
		Slug:                 stringField(t, KeySlug),
		Title:                stringField(t, KeyTitle),
		Excerpt:              stringField(t, KeyExcerpt),
		Date:                 stringField(t, KeyDate),
		ReadTime:             stringField(t, KeyReadTime),
		Categories:           stringList(m[KeyCategories]),
		Icon:                 stringField(t, KeyIcon),
		IconColor:            stringField(t, KeyIconColor),
		IsSeries:             boolField(t, KeyIsSeries),
		IsSeriesEntry:        boolField(t, KeyIsSeriesEntry),
		SeriesSlug:           stringField(t, KeySeriesSlug),
		SeriesTitle:          stringField(t, KeySeriesTitle),
		ChapterTitle:         stringField(t, KeyChapterTitle),
		ChapterNumber:        numberField(m[KeyChapterNumber]),
		PreviousChapter:      stringField(t, KeyPreviousChapter),
		PreviousChapterTitle: stringField(t, KeyPreviousChapterTitle),
		NextChapter:          stringField(t, KeyNextChapter),
		NextChapterTitle:     stringField(t, KeyNextChapterTitle),
	}

	for key, value := range m {
		if knownKeys[key] {
			continue
		}
		if fm.Extra == nil {
			fm.Extra = make(map[string]any)
		}
		fm.Extra[key] = normalizeValue(value)
	}

	return fm
}

// ToMap flattens Frontmatter into a single mapping. Empty known fields are
// omitted; known fields win over Extra entries with the same key.
func (f Frontmatter) ToMap() map[string]any {
	m := make(map[string]any, len(f.Extra)+8)
	for key, value := range f.Extra {
		m[key] = value
	}

	putString := func(key, value string) {
		if value != "" {
			m[key] = value
		} else {
			delete(m, key)
		}
	}
	putBool := func(key string, value bool) {
		if value {
			m[key] = true
		} else {
			delete(m, key)
		}
	}

	putString(KeySlug, f.Slug)
	putString(KeyTitle, f.Title)
	putString(KeyExcerpt, f.Excerpt)
	putString(KeyDate, f.Date)
	putString(KeyReadTime, f.ReadTime)
	putString(KeyIcon, f.Icon)
	putString(KeyIconColor, f.IconColor)
	putBool(KeyIsSeries, f.IsSeries)
	putBool(KeyIsSeriesEntry, f.IsSeriesEntry)
	putString(KeySeriesSlug, f.SeriesSlug)
	putString(KeySeriesTitle, f.SeriesTitle)
	putString(KeyChapterTitle, f.ChapterTitle)
	putString(KeyPreviousChapter, f.PreviousChapter)
	putString(KeyPreviousChapterTitle, f.PreviousChapterTitle)
	putString(KeyNextChapter, f.NextChapter)
	putString(KeyNextChapterTitle, f.NextChapterTitle)

	if len(f.Categories) > 0 {
		m[KeyCategories] = append([]string(nil), f.Categories...)
	} else {
		delete(m, KeyCategories)
	}
	if f.ChapterNumber != nil {
		m[KeyChapterNumber] = *f.ChapterNumber
	} else {
		delete(m, KeyChapterNumber)
	}

	return m
}

// MarshalJSON writes known fields and Extra as one object with sorted keys.
func (f Frontmatter) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToMap())
}

// UnmarshalJSON reads the flattened form written by MarshalJSON.
func (f *Frontmatter) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*f = FromMap(m)
	return nil
}

// ChapterOrder returns the chapter number used for ordering; a missing
// number sorts after every real chapter.
func (f Frontmatter) ChapterOrder() float64 {
	if f.ChapterNumber == nil {
		return MissingChapterNumber
	}
	return *f.ChapterNumber
}

// MissingChapterNumber is the sort position of chapters without a number.
const MissingChapterNumber = 999

// LinkTitle is the label used when another chapter links to this one.
func (f Frontmatter) LinkTitle() string {
	if f.ChapterTitle != "" {
		return f.ChapterTitle
	}
	return f.Title
}

func stringField(t typed.Typed, key string) string {
	if s, ok := t.StringIf(key); ok {
		return strings.TrimSpace(s)
	}
	return scalarString(t[key])
}

func boolField(t typed.Typed, key string) bool {
	if b, ok := t.BoolIf(key); ok {
		return b
	}
	if s, ok := t[key].(string); ok {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}

func numberField(value any) *float64 {
	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case float32:
		n = float64(v)
	case float64:
		n = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		n = f
	default:
		return nil
	}
	return &n
}

func stringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return cleanList(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalarString(item))
		}
		return cleanList(out)
	case string:
		return cleanList(strings.Split(v, ","))
	default:
		return cleanList([]string{scalarString(v)})
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// scalarString renders a decoded scalar as text. YAML timestamps become
// dates (or RFC 3339 when they carry a time of day).
func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return formatTime(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		if n := numberField(v); n != nil {
			return strconv.FormatFloat(*n, 'f', -1, 64)
		}
		return fmt.Sprint(v)
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// normalizeValue makes Extra values JSON friendly and deterministic.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return formatTime(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	default:
		if n := numberField(v); n != nil {
			if _, isString := v.(string); !isString {
				return *n
			}
		}
		return v
	}
}
