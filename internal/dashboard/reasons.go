package dashboard

import (
	"regexp"
	"strings"

	"github.com/moduel/propdash/internal/domain"
)

// SectionCount is the number of pages in the reason breakdown: the four
// numbered reasons followed by the final conclusion.
const SectionCount = domain.ReasonCount + 1

// NoText replaces an empty reason section.
const NoText = "No text available."

var sectionTitles = [SectionCount]string{
	"Performance Against Opposing Team",
	"Scoring Trends",
	"Role & Teammate Interactions",
	"Recent Game Flow Analysis",
	"Final Reason for Confidence Level",
}

// Analyses often open with a bold heading such as "**Trend:**" or
// "**Trend**:". Both forms are dropped along with the trailing space.
var (
	boldColonInside  = regexp.MustCompile(`^\*\*.*:\*\*\s*`)
	boldColonOutside = regexp.MustCompile(`^\*\*.*\*\*:\s*`)
)

// CleanReasonText strips a leading bold heading from a reason.
func CleanReasonText(text string) string {
	text = boldColonInside.ReplaceAllString(text, "")
	return boldColonOutside.ReplaceAllString(text, "")
}

// Section is one rendered page of the reason breakdown.
type Section struct {
	Index int
	Title string
	Text  string
}

// ReasonPager walks the reason sections of one player. Index is 1-based.
type ReasonPager struct {
	texts [SectionCount]string
	index int
}

// NewReasonPager starts at section 1.
func NewReasonPager(p domain.PlayerView) *ReasonPager {
	rp := &ReasonPager{index: 1}
	for i := 0; i < domain.ReasonCount && i < len(p.Reasons); i++ {
		rp.texts[i] = p.Reasons[i]
	}
	rp.texts[SectionCount-1] = p.FinalConclusion
	return rp
}

// Index returns the current section number.
func (rp *ReasonPager) Index() int { return rp.index }

// Seek moves to section n, clamped to [1, SectionCount].
func (rp *ReasonPager) Seek(n int) {
	switch {
	case n < 1:
		n = 1
	case n > SectionCount:
		n = SectionCount
	}
	rp.index = n
}

// Next advances one section, wrapping from the last to the first.
func (rp *ReasonPager) Next() {
	rp.index = rp.index%SectionCount + 1
}

// Prev steps back one section, wrapping from the first to the last.
func (rp *ReasonPager) Prev() {
	rp.index = (rp.index+SectionCount-2)%SectionCount + 1
}

// NextIndex is the section Next would move to.
func (rp *ReasonPager) NextIndex() int { return rp.index%SectionCount + 1 }

// PrevIndex is the section Prev would move to.
func (rp *ReasonPager) PrevIndex() int { return (rp.index+SectionCount-2)%SectionCount + 1 }

// Current returns the section at the current index.
func (rp *ReasonPager) Current() Section {
	text := CleanReasonText(rp.texts[rp.index-1])
	if strings.TrimSpace(text) == "" {
		text = NoText
	}
	return Section{
		Index: rp.index,
		Title: sectionTitles[rp.index-1],
		Text:  text,
	}
}
