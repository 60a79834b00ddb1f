package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/internal/requestctx"
)

// EventSubmissionCreated is the eventType attribute of published notifications.
const EventSubmissionCreated = "submission.created"

// Submission describes a stored form submission.
type Submission struct {
	Kind        Kind      `json:"kind"`
	Collection  string    `json:"collection"`
	DocumentID  string    `json:"documentId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Notifier is told about every stored submission.
type Notifier interface {
	Notify(ctx context.Context, submission Submission) error
}

// publishWait bounds how long a background publish may take to be acknowledged.
const publishWait = 30 * time.Second

// PubSubNotifier publishes submissions to a Pub/Sub topic. Acknowledgements are awaited
// in the background so a slow broker never delays the visitor's response.
type PubSubNotifier struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
	logger  *zap.Logger
	pending sync.WaitGroup
}

// NotifierOption configures a PubSubNotifier.
type NotifierOption func(*PubSubNotifier)

// WithNotifierLogger sets the logger used when the request context carries none.
func WithNotifierLogger(logger *zap.Logger) NotifierOption {
	return func(n *PubSubNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func NewPubSubNotifier(topic *pubsub.Topic, opts ...NotifierOption) (*PubSubNotifier, error) {
	if topic == nil {
		return nil, errors.New("pubsub notifier: topic is required")
	}
	n := &PubSubNotifier{topic: topic, marshal: json.Marshal, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n, nil
}

// Notify queues the submission for publishing. Broker failures are logged, not returned.
func (n *PubSubNotifier) Notify(ctx context.Context, submission Submission) error {
	if n == nil || n.topic == nil {
		return errors.New("pubsub notifier: not initialised")
	}
	data, err := n.marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	logger := observability.FromContext(ctx)
	if logger == requestctx.NoopLogger() {
		logger = n.logger
	}
	logger = logger.With(zap.String("collection", submission.Collection), zap.String("document_id", submission.DocumentID))

	ctx = context.WithoutCancel(ctx)
	result := n.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"eventType":  EventSubmissionCreated,
			"kind":       string(submission.Kind),
			"collection": submission.Collection,
			"documentId": submission.DocumentID,
		},
	})

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		waitCtx, cancel := context.WithTimeout(ctx, publishWait)
		defer cancel()
		serverID, err := result.Get(waitCtx)
		if err != nil {
			logger.Warn("notification failed", zap.Error(err))
			return
		}
		logger.Debug("notification published", zap.String("message_id", serverID))
	}()
	return nil
}

// Wait blocks until every queued notification has been acknowledged or has failed.
func (n *PubSubNotifier) Wait() {
	n.pending.Wait()
}
