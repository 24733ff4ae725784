package travel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/travel-compass/internal/metrics"
)

// ErrEmptyDestination is returned when the query has no destination.
var ErrEmptyDestination = errors.New("destination is required")

// Completer is a chat-completion capability: one system message, one user
// message, one text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Recommender turns a Query into a Recommendation with a single model call.
type Recommender struct {
	chat  Completer
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// NewRecommender constructs a Recommender backed by chat.
func NewRecommender(chat Completer, log *slog.Logger) *Recommender {
	return &Recommender{
		chat:  chat,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewRecommenderWithClock constructs a Recommender with an injectable clock
// and ID generator (used in tests).
func NewRecommenderWithClock(chat Completer, log *slog.Logger, now func() time.Time, newID func() string) *Recommender {
	return &Recommender{chat: chat, log: log, now: now, newID: newID}
}

// Recommend builds the prompt, calls the model once and normalizes the reply.
// A model error is returned as-is (wrapped); only unparseable replies fall
// back to synthesized content.
func (r *Recommender) Recommend(ctx context.Context, q Query) (*Recommendation, error) {
	if strings.TrimSpace(q.Destination) == "" {
		return nil, ErrEmptyDestination
	}

	raw, err := r.chat.Complete(ctx, SystemMessage, BuildPrompt(q))
	if err != nil {
		return nil, fmt.Errorf("generating recommendations for %s: %w", q.Destination, err)
	}

	n := Normalize(raw, q.Destination)
	metrics.ObserveNormalize(n.Stage.String())
	if n.Stage == StageFallback {
		r.log.Warn("model reply was not json, using fallback", "destination", q.Destination, "reply_len", len(raw))
	} else {
		r.log.Info("model reply normalized", "destination", q.Destination, "stage", n.Stage.String(), "items", len(n.Recommendations))
	}

	return &Recommendation{
		ID:              r.newID(),
		Query:           q.Destination,
		Recommendations: n.Recommendations,
		GeographicInfo:  n.GeographicInfo,
		ClimateInfo:     n.ClimateInfo,
		CreatedAt:       r.now().UTC().Truncate(time.Microsecond),
	}, nil
}
