package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	conv := DefaultConvention()

	testCases := []struct {
		rel      string
		role     Role
		expected string
	}{
		{"_layout.jsx", RoleLayout, "Layout"},
		{"index.jsx", RoleIndex, "Index"},
		{"users/[id].jsx", RolePage, "UsersId"},
		{"users/[id]/edit.lazy_.jsx", RolePage, "UsersIdEdit"},
		{"about.loader_.js", RoleLoader, "aboutLoader"},
		{"docs/_layout.loader_.js", RoleLoader, "docsLayoutLoader"},
		{"_error.jsx", RoleError, "ErrorBoundary"},
		{"admin/_error.tsx", RoleError, "AdminErrorBoundary"},
		{"(auth)/login.jsx", RolePage, "AuthLogin"},
		{"blog/my-first-post.jsx", RolePage, "BlogMyFirstPost"},
		{"_any.jsx", RoleCatchAll, "Any"},
		{"404.jsx", RolePage, "_404"},
		{"./settings.tsx", RolePage, "Settings"},
	}

	for _, tc := range testCases {
		t.Run(tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.expected, Identifier(tc.rel, tc.role, conv))
		})
	}
}

func TestIdentifierIsDeterministic(t *testing.T) {
	conv := DefaultConvention()
	first := Identifier("a/b/[slug].lazy_.tsx", RolePage, conv)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Identifier("a/b/[slug].lazy_.tsx", RolePage, conv))
	}
}

func TestMountSymbol(t *testing.T) {
	assert.Equal(t, "DocsRoutes", MountSymbol("/docs"))
	assert.Equal(t, "DocsV2Routes", MountSymbol("/docs/v2"))
	assert.Equal(t, "LangDocsRoutes", MountSymbol("/:lang/docs"))
	assert.Equal(t, "RootRoutes", MountSymbol("/"))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "layout", RoleLayout.String())
	assert.Equal(t, "catch-all", RoleCatchAll.String())
	assert.Equal(t, "unknown", Role(99).String())
}
