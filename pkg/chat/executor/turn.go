package executor

import (
	"context"
	"time"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/chat/response"
	"community-resources-be/pkg/chat/state"
	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
	"community-resources-be/pkg/store"
)

const module = "TurnExecutor"

// Datasets gives the executor read access to the shared category datasets.
type Datasets interface {
	Get(ctx context.Context, c resource.Category) (*resource.Dataset, error)
}

// Executor runs one conversational turn against a session. It mutates the
// session it is given; callers pass a clone and keep it only on success.
type Executor struct {
	datasets Datasets
	states   *state.Manager
	pageSize int
	logger   logger.ILogger
}

func NewExecutor(datasets Datasets, states *state.Manager, pageSize int, log logger.ILogger) *Executor {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	return &Executor{datasets: datasets, states: states, pageSize: pageSize, logger: log}
}

// Run handles text as the next turn of s and records the assistant's
// message in the history. While a correction is pending the text is always
// read as the answer to it.
func (e *Executor) Run(ctx context.Context, s *store.Session, text string, now time.Time) (Reply, error) {
	var (
		reply Reply
		err   error
	)

	if pending := e.states.TakePending(s); pending != nil {
		reply, err = e.answer(ctx, s, pending, text)
	} else {
		switch search.ClassifyTurn(text) {
		case search.TurnEmpty:
			reply = Reply{Kind: KindEmpty, Message: response.EmptyTurn(s.Category)}
		case search.TurnMore:
			reply, err = e.more(ctx, s)
		default:
			reply, err = e.query(ctx, s, text, true)
		}
	}
	if err != nil {
		return Reply{}, err
	}

	reply.Category = s.Category
	s.AddMessage(store.SpeakerAssistant, reply.Message, now)

	e.logger.Debug(module, "Turn completed", map[string]interface{}{
		"session_id": s.ID,
		"category":   s.Category,
		"kind":       reply.Kind,
		"results":    len(reply.Results),
	})
	return reply, nil
}

func (e *Executor) answer(ctx context.Context, s *store.Session, pending *store.PendingCorrection, text string) (Reply, error) {
	if correction.ReadAnswer(text) == correction.Accepted {
		query := correction.Substitute(pending.Query, pending.Original, pending.Suggested)
		return e.query(ctx, s, query, false)
	}
	return Reply{
		Kind:    KindClarification,
		Message: response.Declined(s.Category, correction.IsExplicitNo(text)),
	}, nil
}

// query searches text as a new topic. The page is computed against an
// empty exclusion set; its ids still join the category's shown set so that
// "more" never repeats anything seen in this category.
func (e *Executor) query(ctx context.Context, s *store.Session, text string, gate bool) (Reply, error) {
	ds, err := e.datasets.Get(ctx, s.Category)
	if err != nil {
		return Reply{}, err
	}

	det := search.Detect(text, s.ExplicitFilters, ds)

	if gate && det.Effective.Service == "" {
		if sugg, ok := correction.Suggest(det.Candidates, resource.VocabularyFor(s.Category)); ok {
			e.states.TransitionToAwaiting(s, text, sugg)
			return Reply{
				Kind:       KindCorrectionPrompt,
				Message:    response.DidYouMean(sugg),
				Query:      text,
				Suggestion: &sugg,
				Dataset:    datasetInfo(ds),
			}, nil
		}
	}

	if det.OtherCategory != "" && !det.Effective.Structured() {
		return Reply{
			Kind:              KindClarification,
			Message:           response.OtherCategory(s.Category, det.OtherCategory),
			Query:             text,
			SuggestedCategory: det.OtherCategory,
			Dataset:           datasetInfo(ds),
		}, nil
	}

	page := search.Search(ds, det.Effective, search.NewIDSet(), e.pageSize)
	s.Shown(s.Category).Add(page.IDs()...)
	s.LastQueries[s.Category] = store.LastQuery{Text: text, Filters: det.Effective, Applied: det.Applied}
	s.RememberSearch(s.Category, text)

	reply := e.fromPage(s.Category, ds, page, det.Applied)
	reply.Query = text
	reply.Discarded = det.Discarded
	reply.UnknownZIP = det.UnknownZIP
	if page.AllExhausted {
		reply.Message = response.NoMatches(s.Category, det.Applied, det.UnknownZIP)
	}
	return reply, nil
}

// more continues the category's last search, skipping everything already
// shown in the category.
func (e *Executor) more(ctx context.Context, s *store.Session) (Reply, error) {
	last, ok := s.LastQueries[s.Category]
	if !ok {
		return Reply{Kind: KindNoPreviousQuery, Message: response.NothingToContinue()}, nil
	}

	ds, err := e.datasets.Get(ctx, s.Category)
	if err != nil {
		return Reply{}, err
	}

	shown := s.Shown(s.Category)
	page := search.Search(ds, last.Filters, shown, e.pageSize)
	shown.Add(page.IDs()...)

	reply := e.fromPage(s.Category, ds, page, last.Applied)
	reply.Query = last.Text
	return reply, nil
}

func (e *Executor) fromPage(c resource.Category, ds *resource.Dataset, page search.Page, applied []search.AppliedFilter) Reply {
	if page.AllExhausted {
		return Reply{
			Kind:         KindExhausted,
			Message:      response.NoMore(c),
			Applied:      applied,
			TrustedLinks: resource.TrustedLinks(c),
			Dataset:      datasetInfo(ds),
		}
	}
	return Reply{
		Kind:      KindResults,
		Message:   response.Results(c, page.Results, applied, page.HasMore),
		Results:   page.Results,
		HasMore:   page.HasMore,
		Remaining: page.Remaining,
		Applied:   applied,
		Dataset:   datasetInfo(ds),
	}
}
