package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"codeberg.org/snonux/indictrans/internal"
	"codeberg.org/snonux/indictrans/internal/anki"
	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/processor"
)

type languageItem struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Selected bool   `json:"selected"`
}

type outcomeItem struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

type entryItem struct {
	ID             string            `json:"id"`
	Label          string            `json:"label,omitempty"`
	Text           string            `json:"text"`
	Model          string            `json:"model"`
	SourceLanguage string            `json:"source_language,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Failed         int               `json:"failed"`
	Translations   map[string]string `json:"translations"`
	Outcomes       []outcomeItem     `json:"outcomes"`
}

func newEntryItem(e history.Entry) entryItem {
	outcomes := make([]outcomeItem, 0, e.Result.Len())
	for _, o := range e.Result.Outcomes {
		item := outcomeItem{
			Language: o.Language.String(),
			Code:     o.Language.Code(),
			Text:     o.Text,
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		outcomes = append(outcomes, item)
	}

	return entryItem{
		ID:             e.ID,
		Text:           e.Text,
		Model:          e.Model,
		SourceLanguage: e.SourceLanguage,
		CreatedAt:      e.CreatedAt,
		Failed:         e.Result.Failed(),
		Translations:   e.Result.Rendered(),
		Outcomes:       outcomes,
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "indictrans",
		"version": internal.Version,
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	selected := make(map[language.Language]bool)
	for _, l := range s.proc.DefaultLanguages() {
		selected[l] = true
	}

	items := make([]languageItem, 0, len(language.All()))
	for _, l := range language.All() {
		items = append(items, languageItem{Name: l.String(), Code: l.Code(), Selected: selected[l]})
	}
	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) handleModels(c echo.Context) error {
	return success(c, map[string]any{
		"provider": s.proc.Provider(),
		"default":  s.proc.DefaultModel(),
		"items":    s.proc.Models(),
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read request body", nil)
	}

	req, err := decodeTranslateRequest(body)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return failValidation(c, re.fields)
		}
		s.logger.Error().Err(err).Msg("decode translate request failed")
		return internalError(c, "Failed to validate request")
	}

	langs := s.proc.DefaultLanguages()
	if req.Languages != nil {
		langs, err = language.ParseList(req.Languages)
		if err != nil {
			return failValidation(c, map[string]string{"languages": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.translateBudget())
	defer cancel()

	entry, err := s.proc.Translate(ctx, processor.Request{
		Text:      req.Text,
		Model:     req.Model,
		Languages: langs,
	})
	switch {
	case errors.Is(err, processor.ErrEmptyText):
		return failValidation(c, map[string]string{"text": err.Error()})
	case errors.Is(err, processor.ErrNoLanguages):
		return failValidation(c, map[string]string{"languages": err.Error()})
	case errors.Is(err, processor.ErrUnknownModel):
		return failValidation(c, map[string]string{"model": err.Error()})
	case err != nil:
		s.logger.Error().Err(err).Msg("translate request failed")
		return internalError(c, "Failed to translate")
	}

	return success(c, newEntryItem(entry))
}

func (s *Server) handleHistory(c echo.Context) error {
	entries := s.proc.History()

	items := make([]entryItem, 0, len(entries))
	for i, e := range entries {
		item := newEntryItem(e)
		item.Label = e.Label(i + 1)
		items = append(items, item)
	}
	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) handleClearHistory(c echo.Context) error {
	s.proc.ClearHistory()
	return success(c, map[string]any{
		"cleared": true,
	})
}

// handleExportHistory returns the successful translations of the history
// as an Anki CSV import file
func (s *Server) handleExportHistory(c echo.Context) error {
	cards := anki.CardsFromEntries(s.proc.History())
	if len(cards) == 0 {
		return fail(c, http.StatusNotFound, "No translations to export", nil)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="indictrans.csv"`)
	res.WriteHeader(http.StatusOK)

	return anki.WriteCSV(res, cards, true)
}
