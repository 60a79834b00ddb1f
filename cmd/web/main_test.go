package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/config"
	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/forms"
)

func TestListenAddress(t *testing.T) {
	t.Parallel()

	require.Equal(t, ":9090", listenAddress(":9090", "8081"))
	require.Equal(t, ":8081", listenAddress("", "8081"))
	require.Equal(t, ":8080", listenAddress(" ", ""))
}

func TestNewStoreFallsBackToMemory(t *testing.T) {
	t.Parallel()

	store, closeFn, err := newStore(config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &forms.MemoryStore{}, store)
}

func TestNewStoreUsesFirestoreWhenConfigured(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Firestore: config.FirestoreConfig{ProjectID: "demo-project"}}
	store, closeFn, err := newStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &forms.FirestoreStore{}, store)
}

func TestNewNotifierDisabledWithoutTopic(t *testing.T) {
	t.Parallel()

	n, closeFn, err := newNotifier(context.Background(), config.PubSubConfig{ProjectID: "demo"}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.Nil(t, n)
}

func TestSocialLinksKeepsAbsoluteURLs(t *testing.T) {
	t.Parallel()

	site := &content.Site{Footer: content.Footer{Socials: []content.Link{
		{Label: "LinkedIn", Href: "https://www.linkedin.com/company/nexora"},
		{Label: "Mail", Href: "mailto:hello@nexora.example"},
	}}}
	require.Equal(t, []string{"https://www.linkedin.com/company/nexora"}, socialLinks(site))
}
