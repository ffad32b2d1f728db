package finalhandler

import (
	"net/http"

	"github.com/elnormous/contenttype"
	"github.com/samber/lo"
)

// Negotiator picks the best representation for a request from offers, which are
// ordered by server preference. It returns "" when none of the offers is acceptable.
type Negotiator interface {
	Negotiate(r *http.Request, offers []string) string
}

// NegotiatorFunc allows a function to be used as a [Negotiator].
type NegotiatorFunc func(r *http.Request, offers []string) string

// Negotiate implements [Negotiator].
func (f NegotiatorFunc) Negotiate(r *http.Request, offers []string) string {
	return f(r, offers)
}

// representations maps the tags the final handler offers to media types.
var representations = map[string]string{
	"html": "text/html",
	"text": "text/plain",
}

// preferred is the order in which the final handler offers representations.
var preferred = []string{"html", "text"}

type acceptNegotiator struct{}

// NewAcceptNegotiator returns the default [Negotiator], which matches offers against
// the request's Accept header. Without an Accept header the first offer wins, a
// malformed header matches nothing.
func NewAcceptNegotiator() Negotiator {
	return acceptNegotiator{}
}

func (acceptNegotiator) Negotiate(r *http.Request, offers []string) string {
	tags := lo.Filter(offers, func(tag string, _ int) bool {
		_, ok := representations[tag]
		return ok
	})
	if len(tags) == 0 {
		return ""
	}

	available := lo.Map(tags, func(tag string, _ int) contenttype.MediaType {
		return contenttype.NewMediaType(representations[tag])
	})

	accepted, _, err := contenttype.GetAcceptableMediaType(r, available)
	if err != nil {
		return ""
	}

	_, idx, ok := lo.FindIndexOf(available, func(mt contenttype.MediaType) bool {
		return mt.Type == accepted.Type && mt.Subtype == accepted.Subtype
	})
	if !ok {
		return ""
	}

	return tags[idx]
}
