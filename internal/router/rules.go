package router

import (
	"strings"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// RuleInfo describes one compiled rule for inspection.
type RuleInfo struct {
	Priority     int           `json:"priority"`
	Kind         RuleKind      `json:"kind"`
	Model        core.ModelRef `json:"model"`
	Format       string        `json:"format"`
	PathTemplate string        `json:"path"`
	Append       bool          `json:"append,omitempty"`
	// Shadowed is set when an earlier rule has the same ModelRef; the rule never matches
	Shadowed   bool `json:"shadowed,omitempty"`
	ShadowedBy int  `json:"shadowed_by,omitempty"`
}

// Rules returns the compiled rules in match-priority order.
func (r *Router) Rules() []RuleInfo {
	infos := make([]RuleInfo, 0, len(r.rules))
	firstSeen := make(map[core.ModelRef]int, len(r.rules))

	for i, rl := range r.rules {
		info := RuleInfo{Priority: i, Kind: rl.kind, Model: rl.model}
		if rl.kind == RulePage {
			info.Format = core.FormatFrontmatterMarkdown
			info.PathTemplate = DescribeLocation(rl.page.Location)
		} else {
			info.Format = rl.data.Format
			info.PathTemplate = DescribeLocation(rl.data.Location)
			info.Append = rl.data.IsMultiple
		}

		if prev, ok := firstSeen[rl.model]; ok {
			info.Shadowed = true
			info.ShadowedBy = prev
		} else {
			firstSeen[rl.model] = i
		}

		infos = append(infos, info)
	}

	return infos
}

// DescribeLocation renders a location as a path template, e.g. posts/{slugify(title)}.md.
func DescribeLocation(loc core.LocationSpec) string {
	switch loc.EffectiveKind() {
	case core.LocationField:
		return "{" + loc.FileNameField + "}"
	case core.LocationCollection:
		var b strings.Builder
		if loc.Directory != "" {
			b.WriteString(loc.Directory + "/")
		}
		if loc.UseDate {
			b.WriteString("{createdAt:date}-")
		}
		b.WriteString("{slugify(" + loc.FileNameField + ")}.md")
		return b.String()
	default:
		return loc.FileName
	}
}
