package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjord-cli/fjord/internal/dashboard"
)

type userRecord struct {
	LoginName *string `json:"login_name"`
}

type reportRecord struct {
	Title      *string     `json:"title"`
	URL        *string     `json:"url"`
	ReportedOn *string     `json:"reportedOn"`
	User       *userRecord `json:"user"`
}

type practiceRecord struct {
	Title *string `json:"title"`
}

type productRecord struct {
	Practice    *practiceRecord `json:"practice"`
	URL         *string         `json:"url"`
	UpdatedAt   *string         `json:"updated_at"`
	User        *userRecord     `json:"user"`
	CheckerName *string         `json:"checker_name"`
}

type missingFieldError struct {
	index int
	field string
}

func (e *missingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing required field %q", e.index, e.field)
}

// decodePage extracts the kind's collection from a page body. Every record
// must carry all required fields; one bad record fails the whole page.
func decodePage(kind dashboard.Kind, body []byte) ([]dashboard.Item, error) {
	var page map[string]json.RawMessage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	raw, ok := page[kind.Collection()]
	if !ok {
		return nil, fmt.Errorf("missing %q array", kind.Collection())
	}

	switch kind {
	case dashboard.KindReports:
		var records []reportRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		items := make([]dashboard.Item, 0, len(records))
		for i, r := range records {
			item, err := r.item(i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case dashboard.KindProducts:
		var records []productRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		items := make([]dashboard.Item, 0, len(records))
		for i, r := range records {
			item, err := r.item(i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}
	return nil, errors.New("unsupported kind " + kind.String())
}

func (r reportRecord) item(i int) (dashboard.Item, error) {
	switch {
	case r.Title == nil:
		return dashboard.Item{}, &missingFieldError{i, "title"}
	case r.URL == nil:
		return dashboard.Item{}, &missingFieldError{i, "url"}
	case r.ReportedOn == nil:
		return dashboard.Item{}, &missingFieldError{i, "reportedOn"}
	case r.User == nil || r.User.LoginName == nil:
		return dashboard.Item{}, &missingFieldError{i, "user.login_name"}
	}
	return dashboard.Item{
		Kind:       dashboard.KindReports,
		Title:      *r.Title,
		URL:        *r.URL,
		ReportedOn: *r.ReportedOn,
		Owner:      *r.User.LoginName,
	}, nil
}

func (r productRecord) item(i int) (dashboard.Item, error) {
	switch {
	case r.Practice == nil || r.Practice.Title == nil:
		return dashboard.Item{}, &missingFieldError{i, "practice.title"}
	case r.URL == nil:
		return dashboard.Item{}, &missingFieldError{i, "url"}
	case r.UpdatedAt == nil:
		return dashboard.Item{}, &missingFieldError{i, "updated_at"}
	case r.User == nil || r.User.LoginName == nil:
		return dashboard.Item{}, &missingFieldError{i, "user.login_name"}
	}
	return dashboard.Item{
		Kind:      dashboard.KindProducts,
		Title:     *r.Practice.Title,
		URL:       *r.URL,
		UpdatedOn: *r.UpdatedAt,
		Owner:     *r.User.LoginName,
		Assigned:  r.CheckerName != nil,
	}, nil
}
