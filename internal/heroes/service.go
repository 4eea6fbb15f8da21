package heroes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/messages"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

const (
	DefaultName      = "HeroService"
	DefaultHeroesURL = "api/heroes"

	defaultTimeout = 10 * time.Second
)

// MessageLog receives one human readable line per settled operation.
type MessageLog interface {
	Add(message string)
}

// Service is the data-access layer for the heroes collection. Each operation issues a
// single HTTP call and never returns an error: failures are logged and replaced by a
// fallback value. A Service is safe for concurrent use.
type Service struct {
	client    httpclient.Client
	messages  MessageLog
	diag      logger.Logger
	name      string
	heroesURL string
}

// Option customizes a Service.
type Option func(*Service)

// WithHeroesURL sets the collection url; item and query urls are derived from it.
func WithHeroesURL(u string) Option {
	return func(s *Service) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			s.heroesURL = u
		}
	}
}

// WithLogger sets the diagnostic channel failures are emitted to.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.diag = logger.Ensure(log) }
}

// WithName sets the prefix of every message-log entry.
func WithName(name string) Option {
	return func(s *Service) {
		if name = strings.TrimSpace(name); name != "" {
			s.name = name
		}
	}
}

// NewService wires the service with its HTTP and message-log collaborators.
func NewService(client httpclient.Client, log MessageLog, opts ...Option) *Service {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if log == nil {
		log = messages.New()
	}
	s := &Service{
		client:    client,
		messages:  log,
		diag:      &logger.NopLogger{},
		name:      DefaultName,
		heroesURL: DefaultHeroesURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HeroesURL returns the collection url the service addresses.
func (s *Service) HeroesURL() string { return s.heroesURL }

// ListHeroes fetches the whole collection. Falls back to an empty list.
func (s *Service) ListHeroes(ctx context.Context) []domain.Hero {
	var heroes []domain.Hero
	if err := s.call(ctx, http.MethodGet, s.heroesURL, nil, &heroes); err != nil {
		s.handleError("getHeroes", err)
		return []domain.Hero{}
	}
	s.log("fetched heroes")
	return nonNil(heroes)
}

// GetHero fetches a hero by id. A 404 is a failure like any other.
func (s *Service) GetHero(ctx context.Context, id int) (domain.Hero, bool) {
	var hero domain.Hero
	if err := s.call(ctx, http.MethodGet, s.itemURL(id), nil, &hero); err != nil {
		s.handleError(fmt.Sprintf("getHero id=%d", id), err)
		return domain.Hero{}, false
	}
	s.log(fmt.Sprintf("fetched hero id=%d", id))
	return hero, true
}

// GetHeroLenient looks a hero up through the id query so that a missing hero is an empty
// result, not a 404.
func (s *Service) GetHeroLenient(ctx context.Context, id int) (domain.Hero, bool) {
	var found lenientList
	u := fmt.Sprintf("%s/?id=%d", s.heroesURL, id)
	if err := s.call(ctx, http.MethodGet, u, nil, &found); err != nil {
		s.handleError(fmt.Sprintf("getHero id=%d", id), err)
		return domain.Hero{}, false
	}

	for _, h := range found {
		if h.ID == id {
			s.log(fmt.Sprintf("fetched hero id=%d", id))
			return h, true
		}
	}
	s.log(fmt.Sprintf("did not find hero id=%d", id))
	return domain.Hero{}, false
}

// AddHero posts a new hero and returns it with the server-assigned id.
func (s *Service) AddHero(ctx context.Context, hero domain.Hero) (domain.Hero, bool) {
	var stored domain.Hero
	if err := s.call(ctx, http.MethodPost, s.heroesURL, hero, &stored); err != nil {
		s.handleError("addHero", err)
		return domain.Hero{}, false
	}
	s.log(fmt.Sprintf("added hero w/ id=%d", stored.ID))
	return stored, true
}

// UpdateHero replaces the stored hero with the same id. Nothing is returned either way.
func (s *Service) UpdateHero(ctx context.Context, hero domain.Hero) {
	if err := s.call(ctx, http.MethodPut, s.heroesURL, hero, nil); err != nil {
		s.handleError("updateHero", err)
		return
	}
	s.log(fmt.Sprintf("updated hero id=%d", hero.ID))
}

// DeleteHero removes the hero identified by ref, which may be a domain.ID or a Hero, and
// returns the id used. A nil ref fails without a request.
func (s *Service) DeleteHero(ctx context.Context, ref domain.Identifiable) (int, bool) {
	if ref == nil {
		s.handleError("deleteHero", errNoHeroRef)
		return 0, false
	}
	id := ref.HeroID()
	if err := s.call(ctx, http.MethodDelete, s.itemURL(id), nil, nil); err != nil {
		s.handleError("deleteHero", err)
		return 0, false
	}
	s.log(fmt.Sprintf("deleted hero id=%d", id))
	return id, true
}

// SearchHeroes returns heroes whose name contains term. A blank term short-circuits to
// an empty list without a request or a message.
func (s *Service) SearchHeroes(ctx context.Context, term string) []domain.Hero {
	if strings.TrimSpace(term) == "" {
		return []domain.Hero{}
	}

	var heroes []domain.Hero
	u := fmt.Sprintf("%s/?name=%s", s.heroesURL, url.QueryEscape(term))
	if err := s.call(ctx, http.MethodGet, u, nil, &heroes); err != nil {
		// Report the term as typed, not as escaped on the wire.
		var failure *TransportFailure
		if errors.As(err, &failure) {
			failure.URL = s.heroesURL + "/?name=" + term
		}
		s.handleError("searchHeroes", err)
		return []domain.Hero{}
	}
	s.log(fmt.Sprintf("found heroes matching \"%s\"", term))
	return nonNil(heroes)
}

func (s *Service) itemURL(id int) string {
	return fmt.Sprintf("%s/%d", s.heroesURL, id)
}

func (s *Service) log(message string) {
	s.messages.Add(s.name + ": " + message)
}

// call issues the request and decodes a 2xx body into out when out is non-nil. Every
// error it returns is a *TransportFailure.
func (s *Service) call(ctx context.Context, method, u string, body any, out any) error {
	var (
		resp httpclient.Response
		err  error
	)
	if method == http.MethodGet {
		resp, err = s.client.Get(ctx, u, nil)
	} else {
		resp, err = s.client.Execute(ctx, method, u, body, nil)
	}
	if err != nil {
		return requestFailure(method, u, err)
	}

	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return responseFailure(method, u, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		failure := responseFailure(method, u, resp)
		failure.Parse = true
		failure.Err = err
		return failure
	}
	return nil
}

// lenientList decodes a JSON array of heroes. Any other well-formed JSON value decodes as
// an empty list.
type lenientList []domain.Hero

func (l *lenientList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*l = nil
		return nil
	}
	var heroes []domain.Hero
	if err := json.Unmarshal(data, &heroes); err != nil {
		return err
	}
	*l = heroes
	return nil
}

func nonNil(heroes []domain.Hero) []domain.Hero {
	if heroes == nil {
		return []domain.Hero{}
	}
	return heroes
}
