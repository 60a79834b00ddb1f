package firestore

import (
	"context"
	"errors"
	"maps"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/oklog/ulid/v2"
)

// CreatedAtField is the document field stamped with the server time on insert.
const CreatedAtField = "createdAt"

// Collection appends documents to one named collection.
type Collection struct {
	provider *Provider
	name     string
	newID    func() string
}

func NewCollection(provider *Provider, name string) *Collection {
	return &Collection{
		provider: provider,
		name:     strings.TrimSpace(name),
		newID:    func() string { return ulid.Make().String() },
	}
}

func (c *Collection) Name() string { return c.name }

// Add creates a document under a fresh ULID and returns that id. The stored fields gain a
// createdAt server timestamp; fields itself is left untouched.
func (c *Collection) Add(ctx context.Context, fields map[string]any) (string, error) {
	if c.provider == nil {
		return "", errors.New("firestore: provider is nil")
	}
	if c.name == "" {
		return "", errors.New("firestore: collection name is required")
	}
	client, err := c.provider.Client(ctx)
	if err != nil {
		return "", err
	}
	id := c.newID()
	if _, err := client.Collection(c.name).Doc(id).Create(ctx, stamped(fields)); err != nil {
		return "", WrapError(c.name, err)
	}
	return id, nil
}

func stamped(fields map[string]any) map[string]any {
	out := maps.Clone(fields)
	if out == nil {
		out = make(map[string]any, 1)
	}
	if _, ok := out[CreatedAtField]; !ok {
		out[CreatedAtField] = firestore.ServerTimestamp
	}
	return out
}
