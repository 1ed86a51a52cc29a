package dashboard

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies a remote resource that can back a tab. Every switch over
// Kind is expected to list each constant; the exhaustive linter enforces it.
type Kind int

const (
	KindReports Kind = iota
	KindProducts
)

var titleCaser = cases.Title(language.English)

// Kinds returns every supported kind in default tab order.
func Kinds() []Kind {
	return []Kind{KindReports, KindProducts}
}

// ParseKind resolves a kind from its name or single-letter alias.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reports", "report", "r":
		return KindReports, nil
	case "products", "product", "p":
		return KindProducts, nil
	default:
		return 0, fmt.Errorf("unknown resource kind %q, must be one of [reports products]", name)
	}
}

func (k Kind) String() string {
	switch k {
	case KindReports:
		return "reports"
	case KindProducts:
		return "products"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Label is the default tab label for the kind.
func (k Kind) Label() string {
	return titleCaser.String(k.String())
}

// Resource is the path, relative to the API base, of the paginated endpoint.
func (k Kind) Resource() string {
	switch k {
	case KindReports:
		return "reports/unchecked"
	case KindProducts:
		return "products/not_responded"
	}
	return k.String()
}

// Collection is the name of the array field holding a page's records.
func (k Kind) Collection() string {
	return k.String()
}

// PageInterval is the default pause between consecutive page requests.
func (k Kind) PageInterval() time.Duration {
	switch k {
	case KindReports:
		return 500 * time.Millisecond
	case KindProducts:
		return 200 * time.Millisecond
	}
	return 500 * time.Millisecond
}

// Header returns the column titles matching Item.Row for the kind.
func (k Kind) Header() []string {
	switch k {
	case KindReports:
		return []string{"TITLE", "REPORTED ON", "USER"}
	case KindProducts:
		return []string{"TITLE", "UPDATED ON", "USER", "ASSIGNED"}
	}
	return []string{"TITLE"}
}

// Item is one remote work record. Items are never modified after decoding.
type Item struct {
	Kind       Kind   `json:"-" yaml:"-"`
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	ReportedOn string `json:"reportedOn,omitempty" yaml:"reportedOn,omitempty"`
	UpdatedOn  string `json:"updatedOn,omitempty" yaml:"updatedOn,omitempty"`
	Owner      string `json:"owner" yaml:"owner"`
	Assigned   bool   `json:"assigned,omitempty" yaml:"assigned,omitempty"`
}

// Row is the display projection of an Item, one string per Header column.
type Row []string

const assignedMark = "✓"

// Row projects the item into its kind's display columns.
func (i Item) Row() Row {
	switch i.Kind {
	case KindReports:
		return Row{i.Title, i.ReportedOn, i.Owner}
	case KindProducts:
		assigned := ""
		if i.Assigned {
			assigned = assignedMark
		}
		return Row{i.Title, i.UpdatedOn, i.Owner, assigned}
	}
	return Row{i.Title}
}
