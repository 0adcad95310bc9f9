// Package report renders ranked articles into the markdown digest that is
// published to the tracker and saved as a local backup.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/litwatch/research-digest/internal/model"
	"github.com/litwatch/research-digest/internal/rank"
)

// Priority tiers by combined value.
const (
	PriorityThreshold = 160
	HighThreshold     = 140
)

// NoIdentifier stands in for an item without a DOI.
const NoIdentifier = "No DOI available"

// NotAvailable is printed for the quality rate when nothing was reviewed.
const NotAvailable = "N/A"

// Options controls the parts of the document that vary by deployment.
type Options struct {
	Topic    string // e.g. "NK Cell"
	LinkBase string // prefix for identifier links, e.g. "https://doi.org/"
}

// Report is a rendered document.
type Report struct {
	Title string
	Body  string
}

// Markdown returns the document as written to the backup file.
func (r Report) Markdown() string {
	return "# " + r.Title + "\n\n" + r.Body
}

// Render builds the digest for the ranked items. total is the number of
// items that were scored, before filtering. Output depends only on the
// arguments.
func Render(ranked []model.RankedItem, total int, now time.Time, opts Options) Report {
	title := fmt.Sprintf("🔬 Weekly %s Research Highlights - %s", opts.Topic, now.Format("2006-01-02"))

	var b strings.Builder
	b.WriteString("## 📊 Weekly Research Summary\n\n")

	if len(ranked) == 0 {
		fmt.Fprintf(&b, "No articles met the minimum quality threshold (Research Score ≥ %d OR Social Impact Score ≥ %d) this week.\n\n",
			rank.Threshold, rank.Threshold)
		writeStatistics(&b, 0, total, opts)
		return Report{Title: title, Body: b.String()}
	}

	fmt.Fprintf(&b, "Found **%d** high-quality articles (out of %d total) from the past week that meet our quality criteria.\n\n",
		len(ranked), total)
	fmt.Fprintf(&b, "### 🏆 Top Articles (Research Score ≥ %d OR Social Impact Score ≥ %d)\n\n", rank.Threshold, rank.Threshold)

	for i, item := range ranked {
		writeItem(&b, i+1, item, opts)
	}

	writeStatistics(&b, len(ranked), total, opts)
	return Report{Title: title, Body: b.String()}
}

func writeItem(b *strings.Builder, n int, item model.RankedItem, opts Options) {
	id, link := strings.TrimSpace(item.Identifier), NotAvailable
	if id == "" {
		id = NoIdentifier
	} else {
		link = Link(opts.LinkBase, id)
	}

	fmt.Fprintf(b, "\n---\n\n### %d. %s\n\n", n, item.Title)
	fmt.Fprintf(b, "%s | Research: **%s**/100 | Social Impact: **%s**/100\n\n",
		Priority(item.CombinedValue), item.Score.Research, item.Score.SocialImpact)
	fmt.Fprintf(b, "#### 🔬 Research Analysis\n%s\n\n", orDefault(item.Score.ResearchJustification))
	fmt.Fprintf(b, "#### 🌍 Social Impact Analysis\n%s\n\n", orDefault(item.Score.SocialJustification))
	fmt.Fprintf(b, "**📄 DOI:** `%s`\n", id)
	fmt.Fprintf(b, "**🔗 Link:** %s\n\n", link)
}

func writeStatistics(b *strings.Builder, filtered, total int, opts Options) {
	b.WriteString("\n---\n\n### 📈 Summary Statistics\n")
	fmt.Fprintf(b, "- **Total Articles Reviewed:** %d\n", total)
	fmt.Fprintf(b, "- **High-Quality Articles:** %d\n", filtered)
	fmt.Fprintf(b, "- **Quality Rate:** %s\n\n", QualityRate(filtered, total))

	b.WriteString("### 🔍 Filtering Criteria\n")
	b.WriteString("Articles included if they meet **at least one** of the following:\n")
	fmt.Fprintf(b, "- Research Score ≥ %d (Innovation, methodology, data reliability)\n", rank.Threshold)
	fmt.Fprintf(b, "- Social Impact Score ≥ %d (Public attention, policy relevance, societal impact)\n\n", rank.Threshold)
	fmt.Fprintf(b, "*Generated automatically via %s Research Monitoring System*\n", opts.Topic)
}

// Priority returns the label for a combined value.
func Priority(combined int) string {
	switch {
	case combined >= PriorityThreshold:
		return "🔥 **PRIORITY**"
	case combined >= HighThreshold:
		return "⭐ **HIGH**"
	default:
		return "📌 **NOTABLE**"
	}
}

// Link appends the identifier to base, dropping a literal "doi:" prefix.
func Link(base, identifier string) string {
	id := strings.TrimPrefix(strings.TrimSpace(identifier), "doi:")
	return base + id
}

// QualityRate formats filtered/total as a percentage with one decimal, or
// NotAvailable when total is zero.
func QualityRate(filtered, total int) string {
	if total <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", float64(filtered)/float64(total)*100)
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.NoJustification
	}
	return s
}
