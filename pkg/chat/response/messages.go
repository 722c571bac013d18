package response

import (
	"fmt"
	"strings"

	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
)

// Messages are plain text. Hosts that render records themselves can ignore
// them and use the structured reply.

func Greeting(c resource.Category) string {
	return fmt.Sprintf("Hi! I can help you find %s resources. Tell me what you need, and a ZIP code or day if you have one.", c.DisplayName())
}

func EmptyTurn(c resource.Category) string {
	examples := strings.Join(firstN(resource.VocabularyFor(c).Tags(), 3), ", ")
	return fmt.Sprintf("Tell me what you're looking for, for example: %s.", examples)
}

func Results(c resource.Category, records []resource.Record, applied []search.AppliedFilter, hasMore bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are %d %s resources", len(records), c.DisplayName())
	if len(applied) > 0 {
		fmt.Fprintf(&b, " (%s)", describeApplied(applied))
	}
	b.WriteString(":\n")
	for i, r := range records {
		fmt.Fprintf(&b, "\n%d. %s", i+1, r.Name)
		if r.Address != "" {
			fmt.Fprintf(&b, "\n   Address: %s", r.Address)
		}
		if r.Phone != "" {
			fmt.Fprintf(&b, "\n   Phone: %s", r.Phone)
		}
		if r.HoursText != "" {
			fmt.Fprintf(&b, "\n   Hours: %s", r.HoursText)
		}
		if r.Website != "" {
			fmt.Fprintf(&b, "\n   Website: %s", r.Website)
		}
	}
	if hasMore {
		b.WriteString("\n\nSay \"more\" to see more.")
	}
	return b.String()
}

func NoMatches(c resource.Category, applied []search.AppliedFilter, unknownZIP string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find %s resources", c.DisplayName())
	if len(applied) > 0 {
		fmt.Fprintf(&b, " matching %s", describeApplied(applied))
	}
	b.WriteString(".")
	if unknownZIP != "" {
		fmt.Fprintf(&b, " None of our listings are in %s.", unknownZIP)
	}
	b.WriteString(" These services can help you search further:")
	return b.String()
}

func NoMore(c resource.Category) string {
	return fmt.Sprintf("That's everything I have for this %s search. These services can help you search further:", c.DisplayName())
}

func NothingToContinue() string {
	return "There's no search to continue yet. Tell me what you're looking for first."
}

func DidYouMean(s correction.Suggestion) string {
	return fmt.Sprintf("Did you mean \"%s\"? Please answer yes or no.", s.Suggested)
}

// Declined asks what the user meant after a suggestion was turned down.
func Declined(c resource.Category, explicitNo bool) string {
	options := strings.Join(resource.VocabularyFor(c).Tags(), ", ")
	if explicitNo {
		return fmt.Sprintf("Okay. Which service did you mean? I know about: %s.", options)
	}
	return fmt.Sprintf("I'll take that as a no. Which service are you looking for? I know about: %s.", options)
}

func OtherCategory(active, other resource.Category) string {
	return fmt.Sprintf("That sounds like %s, but you're searching %s. Switch to %s to search for it.",
		other.DisplayName(), active.DisplayName(), other.DisplayName())
}

func describeApplied(applied []search.AppliedFilter) string {
	parts := make([]string, 0, len(applied))
	for _, f := range applied {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Value))
	}
	return strings.Join(parts, ", ")
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
