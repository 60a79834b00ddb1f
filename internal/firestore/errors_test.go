package firestore

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chhitz007/nexora-page/internal/config"
)

func TestWrapErrorMarksOutages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code        codes.Code
		unavailable bool
	}{
		{code: codes.Unavailable, unavailable: true},
		{code: codes.ResourceExhausted, unavailable: true},
		{code: codes.AlreadyExists},
		{code: codes.PermissionDenied},
		{code: codes.InvalidArgument},
	}

	for _, tc := range cases {
		err := WrapError("contact_waitlist", status.Error(tc.code, "backend"))
		var ferr *Error
		require.ErrorAs(t, err, &ferr, tc.code.String())
		require.Equal(t, "contact_waitlist", ferr.Collection)
		require.Equal(t, tc.unavailable, ferr.IsUnavailable(), tc.code.String())
		require.Equal(t, tc.unavailable, IsUnavailable(err), tc.code.String())
		require.Equal(t, tc.code, status.Code(errors.Unwrap(err)))
	}
	require.False(t, IsUnavailable(errors.New("plain")))
}

func TestWrapErrorPassesContextErrors(t *testing.T) {
	t.Parallel()

	require.NoError(t, WrapError("op", nil))
	require.ErrorIs(t, WrapError("op", context.Canceled), context.Canceled)
	require.ErrorIs(t, WrapError("op", status.Error(codes.Canceled, "gone")), context.Canceled)
	require.ErrorIs(t, WrapError("op", status.Error(codes.DeadlineExceeded, "slow")), context.DeadlineExceeded)
}

func TestCollectionRequiresProjectID(t *testing.T) {
	t.Setenv(envGoogleProjectID, "")
	t.Setenv(envEmulatorHost, "")

	coll := NewCollection(NewProvider(config.FirestoreConfig{}), "contact_general")
	require.Equal(t, "contact_general", coll.Name())

	_, err := coll.Add(context.Background(), map[string]any{"fullName": "Jane Doe"})
	require.ErrorContains(t, err, "project id is required")
}

func TestProviderClosedRejectsClient(t *testing.T) {
	t.Parallel()

	provider := NewProvider(config.FirestoreConfig{ProjectID: "demo"})
	require.NoError(t, provider.Close())
	require.NoError(t, provider.Close())

	_, err := provider.Client(context.Background())
	require.ErrorIs(t, err, ErrProviderClosed)
}

func TestStampedCopiesInput(t *testing.T) {
	t.Parallel()

	input := map[string]any{"email": "jane@example.com"}
	out := stamped(input)
	require.Equal(t, firestore.ServerTimestamp, out[CreatedAtField])
	require.NotContains(t, input, CreatedAtField)

	preset := stamped(map[string]any{CreatedAtField: "fixed"})
	require.Equal(t, "fixed", preset[CreatedAtField])
	require.Contains(t, stamped(nil), CreatedAtField)
}
