package forms

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newPubSubClient(t *testing.T, srv *pstest.Server) *pubsub.Client {
	t.Helper()
	client, err := pubsub.NewClient(context.Background(), "test-project",
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPubSubNotifierPublishesSubmission(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()
	client := newPubSubClient(t, srv)

	topic, err := client.CreateTopic(ctx, "form-submissions")
	require.NoError(t, err)
	defer topic.Stop()

	notifier, err := NewPubSubNotifier(topic)
	require.NoError(t, err)

	sub := Submission{
		Kind:        KindMedia,
		Collection:  "contact_media",
		DocumentID:  "01J000000000000000000000AB",
		SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	reqCtx, cancel := context.WithCancel(ctx)
	require.NoError(t, notifier.Notify(reqCtx, sub))
	cancel()
	notifier.Wait()

	messages := srv.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, EventSubmissionCreated, messages[0].Attributes["eventType"])
	require.Equal(t, "contact_media", messages[0].Attributes["collection"])
	require.Equal(t, sub.DocumentID, messages[0].Attributes["documentId"])

	var payload Submission
	require.NoError(t, json.Unmarshal(messages[0].Data, &payload))
	require.Equal(t, sub, payload)
}

func TestPubSubNotifierLogsPublishFailure(t *testing.T) {
	srv := pstest.NewServer()
	defer srv.Close()
	client := newPubSubClient(t, srv)

	topic := client.Topic("missing-topic")
	defer topic.Stop()

	core, logs := observer.New(zapcore.DebugLevel)
	notifier, err := NewPubSubNotifier(topic, WithNotifierLogger(zap.New(core)))
	require.NoError(t, err)

	require.NoError(t, notifier.Notify(context.Background(), Submission{
		Kind: KindGeneral, Collection: "contact_general", DocumentID: "01J000000000000000000000CD",
	}))
	notifier.Wait()

	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "01J000000000000000000000CD", entries[0].ContextMap()["document_id"])
	require.Empty(t, srv.Messages())
}

func TestNewPubSubNotifierRequiresTopic(t *testing.T) {
	_, err := NewPubSubNotifier(nil)
	require.Error(t, err)
}
