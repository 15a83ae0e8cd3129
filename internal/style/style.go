// Package style maps frontmatter icon and color names to presentation
// tokens. Unknown names resolve to the defaults; resolution never fails.
package style

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Defaults used for missing or unknown names.
const (
	DefaultIcon  = "Code"
	DefaultColor = "blue"
)

// Token is the presentation form of an icon and color pair.
type Token struct {
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	TextClass   string `json:"textClass"`
	BgClass     string `json:"bgClass"`
	BorderClass string `json:"borderClass"`
}

var icons = []string{
	"Blocks",
	"BookOpen",
	"Brain",
	"Cloud",
	"Code",
	"Cpu",
	"Database",
	"FileText",
	"GitBranch",
	"Globe",
	"Layers",
	"Lock",
	"Network",
	"Rocket",
	"Server",
	"Shield",
	"Terminal",
	"Wrench",
	"Zap",
}

var colors = []string{
	"amber",
	"blue",
	"cyan",
	"emerald",
	"gray",
	"green",
	"indigo",
	"orange",
	"pink",
	"purple",
	"red",
	"rose",
	"teal",
	"violet",
	"yellow",
}

// Lookup tables keyed by case-folded name.
var (
	iconByKey  = index(icons)
	colorByKey = index(colors)
)

func index(names []string) map[string]string {
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[fold(name)] = name
	}
	return m
}

// fold normalizes a name for lookup: case folded, with spaces, hyphens and
// underscores removed, so "git-branch" matches "GitBranch".
func fold(name string) string {
	name = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(name))
	return cases.Fold().String(name)
}

// Resolve returns the token for icon and color, substituting the defaults
// for unknown or empty names.
func Resolve(icon, color string) Token {
	i, ok := iconByKey[fold(icon)]
	if !ok {
		i = DefaultIcon
	}
	c, ok := colorByKey[fold(color)]
	if !ok {
		c = DefaultColor
	}
	return Token{
		Icon:        i,
		Color:       c,
		TextClass:   "text-" + c + "-400",
		BgClass:     "bg-" + c + "-500/10",
		BorderClass: "border-" + c + "-500/20",
	}
}

// Icons returns the recognized icon names in sorted order.
func Icons() []string {
	out := append([]string(nil), icons...)
	sort.Strings(out)
	return out
}

// Colors returns the recognized color names in sorted order.
func Colors() []string {
	out := append([]string(nil), colors...)
	sort.Strings(out)
	return out
}
