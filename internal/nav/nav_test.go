package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActive(t *testing.T) {
	t.Parallel()

	items := Build("/contact")
	require.Len(t, items, 4)
	for _, it := range items {
		require.Equal(t, it.Href == "/contact", it.Active, it.Href)
	}

	home := Build("")
	require.True(t, home[0].Active)
	require.False(t, home[1].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, Breadcrumbs("/"))

	crumbs := Breadcrumbs("/investors/brief-request")
	require.Equal(t, []Crumb{
		{Href: "/", Label: "Home"},
		{Href: "/investors", Label: "Investors"},
		{Href: "/investors/brief-request", Label: "Brief request", Active: true},
	}, crumbs)
}
