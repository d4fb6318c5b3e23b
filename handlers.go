package pubcontent

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcontent/views"
)

type fieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

type collectionInfo struct {
	Name   string      `json:"name"`
	Fields []fieldInfo `json:"fields"`
}

type validateResponse struct {
	Valid  bool               `json:"valid"`
	Entry  *BlogEntry         `json:"entry,omitempty"`
	Errors []FieldErrorRecord `json:"errors,omitempty"`
}

// collection resolves the :name route parameter.
func collection(c echo.Context) (Collection, error) {
	coll, err := LookupCollection(c.Param("name"))
	if err != nil {
		return Collection{}, echo.NewHTTPError(http.StatusNotFound, "unknown collection")
	}
	return coll, nil
}

func (a *App) handleCollections(c echo.Context) error {
	names := make([]string, 0, len(Collections))
	for name := range Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]collectionInfo, 0, len(names))
	for _, name := range names {
		coll := Collections[name]
		info := collectionInfo{Name: coll.Name}
		for _, f := range coll.Schema {
			info.Fields = append(info.Fields, fieldInfo{Name: f.Name, Type: f.Kind.String(), Optional: f.Optional})
		}
		out = append(out, info)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleEntries(c echo.Context) error {
	if _, err := collection(c); err != nil {
		return err
	}
	entries, err := a.Cache.ListEntries(c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (a *App) handleEntry(c echo.Context) error {
	if _, err := collection(c); err != nil {
		return err
	}
	entry, err := a.Cache.GetEntry(c.Param("*"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "entry not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (a *App) handleTags(c echo.Context) error {
	if _, err := collection(c); err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (a *App) handleFailures(c echo.Context) error {
	if _, err := collection(c); err != nil {
		return err
	}
	failures, err := a.Store.ListFailures()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, failures)
}

// handleValidate runs the schema validator on a JSON object posted as the
// raw front matter record. Nothing is stored.
func (a *App) handleValidate(c echo.Context) error {
	if _, err := collection(c); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil || raw == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")
	}
	entry, err := ValidateBlogEntry(raw)
	if err != nil {
		verrs, ok := AsValidationErrors(err)
		if !ok {
			return err
		}
		return c.JSON(http.StatusUnprocessableEntity, validateResponse{Errors: verrs.Records()})
	}
	return c.JSON(http.StatusOK, validateResponse{Valid: true, Entry: &entry})
}

func (a *App) handleReport(c echo.Context) error {
	report := a.LastReport()
	if report == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "collection not checked yet")
	}
	return Render(c, views.ReportPage(reportView(report)))
}

func reportView(r *Report) views.Report {
	v := views.Report{Collection: r.Collection, CheckedAt: r.CheckedAt}
	for _, e := range r.Entries {
		v.Entries = append(v.Entries, views.EntryRow{Slug: e.Slug, Title: e.Data.Title, PubDate: e.Data.PubDate, Tags: e.Data.Tags})
	}
	for _, f := range r.Failures {
		row := views.FailureRow{Path: f.Path}
		for _, fe := range f.Errors {
			row.Messages = append(row.Messages, fe.Error())
		}
		v.Failures = append(v.Failures, row)
	}
	for _, w := range r.Warnings {
		v.Warnings = append(v.Warnings, views.WarningRow{Slug: w.Slug, Message: w.Message})
	}
	return v
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := any(http.StatusText(code))
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = he.Message
	}
	if code >= 500 {
		requestLogger(c).Error().Err(err).Msg("server error")
	}
	_ = c.JSON(code, map[string]any{"error": msg})
}
