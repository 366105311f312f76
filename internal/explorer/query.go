package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

// QueryResult is the structured answer of the query backend.
type QueryResult struct {
	Filenames  []string `json:"filenames"`
	Commentary string   `json:"commentary"`
}

// SendQuery asks the backend which images answer query and highlights them.
//
// Before the call the selection, caption and camera are reset; after it,
// IsFetching is cleared whatever the outcome. On a backend error or an
// unparseable answer the highlight is untouched and the caption reverts to its
// value before the call. Backend errors are returned; parse errors are only
// logged, unless Options.SurfaceParseErrors is set.
func (e *Explorer) SendQuery(ctx context.Context, query string) error {
	var prompt, prevCaption string
	loaded := false
	e.store.Update(func(s *store.State) {
		if len(s.Images) == 0 {
			return
		}
		loaded = true
		prevCaption = s.Caption
		s.IsFetching = true
		s.TargetImage = ""
		s.ResetCamera = true
		s.Caption = ""
		prompt = e.opts.Prompt(s.Images, query)
	})
	if !loaded {
		return ErrCatalogNotLoaded
	}
	defer e.store.Update(func(s *store.State) {
		s.IsFetching = false
	})

	callCtx, cancel := e.backendContext(ctx)
	defer cancel()

	resp, err := e.backend.QueryLLM(callCtx, prompt)
	if err != nil {
		slog.Error("Query failed", "query", query, "err", err)
		e.restoreCaption(prevCaption)
		return fmt.Errorf("failed to query backend: %w", err)
	}

	result, err := ParseQueryResponse(resp)
	if err != nil {
		slog.Warn("Unable to parse query response", "query", query, "err", err)
		e.restoreCaption(prevCaption)
		if e.opts.SurfaceParseErrors {
			return err
		}
		return nil
	}

	highlighted := 0
	e.store.Update(func(s *store.State) {
		set := make(models.IDSet, len(result.Filenames))
		for _, id := range result.Filenames {
			if !s.HasImage(id) {
				slog.Debug("Ignoring unknown filename in query response", "id", id)
				continue
			}
			set[id] = struct{}{}
		}
		s.HighlightNodes = set
		s.Caption = result.Commentary
		highlighted = len(set)
	})

	slog.Info("Query resolved", "query", query, "highlights", highlighted)
	return nil
}

// restoreCaption puts back the caption cleared for a failed query, unless
// another action has set a new one meanwhile.
func (e *Explorer) restoreCaption(prev string) {
	e.store.Update(func(s *store.State) {
		if s.Caption == "" {
			s.Caption = prev
		}
	})
}

// ClearQuery drops the highlight, caption and selection.
func (e *Explorer) ClearQuery() {
	e.store.Update(func(s *store.State) {
		s.HighlightNodes = nil
		s.Caption = ""
		s.TargetImage = ""
	})
}

// ParseQueryResponse strips optional ```json fences and decodes the answer.
// Both filenames and commentary must be present.
func ParseQueryResponse(text string) (QueryResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		Filenames  *[]string `json:"filenames"`
		Commentary *string   `json:"commentary"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return QueryResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Filenames == nil {
		return QueryResult{}, fmt.Errorf("%w: missing filenames", ErrMalformedResponse)
	}
	if raw.Commentary == nil {
		return QueryResult{}, fmt.Errorf("%w: missing commentary", ErrMalformedResponse)
	}

	return QueryResult{Filenames: *raw.Filenames, Commentary: *raw.Commentary}, nil
}
