package routes

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
)

func compile(t *testing.T, version int, fsys fstest.MapFS, mounts ...Mount) ([]*Record, error) {
	t.Helper()
	conv, err := ConventionFor(version)
	require.NoError(t, err)
	return Compile(fsys, Options{
		Convention:   conv,
		BasePath:     "/",
		ImportPrefix: "./routes",
		Mounts:       mounts,
	})
}

func mustCompile(t *testing.T, version int, fsys fstest.MapFS, mounts ...Mount) []*Record {
	t.Helper()
	table, err := compile(t, version, fsys, mounts...)
	require.NoError(t, err)
	return table
}

func TestMergeLayoutIndexAndLazyPage(t *testing.T) {
	table := mustCompile(t, 2, mapFS("_layout.jsx", "index.jsx", "login.lazy_.jsx"))

	require.Len(t, table, 1)
	root := table[0]
	assert.Equal(t, "/", root.Path)
	require.NotNil(t, root.Layout)
	assert.Equal(t, "Layout", root.Layout.Symbol)

	require.Len(t, root.Children, 2)
	assert.True(t, root.Children[0].Index)
	assert.Empty(t, root.Children[0].Path)
	assert.Equal(t, "Index", root.Children[0].Page.Symbol)

	login := root.Children[1]
	assert.Equal(t, "/login", login.Path)
	assert.True(t, login.Page.Lazy)
	assert.Equal(t, "./routes/login.lazy_", login.Page.ImportPath)
}

func TestMergeFolderIndexCollapses(t *testing.T) {
	table := mustCompile(t, 2, mapFS("about/index.jsx"))

	require.Len(t, table, 1)
	about := table[0]
	assert.Equal(t, "/about", about.Path)
	assert.False(t, about.Index)
	assert.Equal(t, "AboutIndex", about.Page.Symbol)
	assert.Empty(t, about.Children)
}

func TestMergeRootIndexStaysIndex(t *testing.T) {
	table := mustCompile(t, 2, mapFS("index.jsx"))

	require.Len(t, table, 1)
	assert.True(t, table[0].Index)
	assert.Empty(t, table[0].Path)
}

func TestMergeLayoutAndIndexFoldIntoOneRecord(t *testing.T) {
	table := mustCompile(t, 2, mapFS("admin/_layout.jsx", "admin/index.jsx", "admin/users.jsx"))

	require.Len(t, table, 1)
	admin := table[0]
	assert.Equal(t, "/admin", admin.Path)
	assert.Equal(t, "AdminLayout", admin.Layout.Symbol)
	require.Len(t, admin.Children, 2)
	assert.True(t, admin.Children[0].Index)
	assert.Equal(t, "AdminIndex", admin.Children[0].Page.Symbol)
	assert.Equal(t, "/admin/users", admin.Children[1].Path)

	count := 0
	Walk(table, "/", func(r *Record, _ string, _ int) {
		if r.Path == "/admin" {
			count++
		}
	})
	assert.Equal(t, 1, count)
}

func TestMergePagePromotedToIndex(t *testing.T) {
	table := mustCompile(t, 2, mapFS("about.jsx", "about/_layout.jsx", "about/team.jsx"))

	require.Len(t, table, 1)
	about := table[0]
	assert.Equal(t, "/about", about.Path)
	require.NotNil(t, about.Layout)
	require.Len(t, about.Children, 2)
	assert.True(t, about.Children[0].Index)
	assert.Equal(t, "About", about.Children[0].Page.Symbol)
	assert.Equal(t, "/about/team", about.Children[1].Path)
}

func TestMergeErrorAndLoaderShareRecord(t *testing.T) {
	table := mustCompile(t, 2, mapFS(
		"dashboard/_error.jsx",
		"dashboard/_layout.jsx",
		"dashboard/_layout.loader_.js",
		"dashboard/index.jsx",
	))

	require.Len(t, table, 1)
	dash := table[0]
	assert.Equal(t, "/dashboard", dash.Path)
	assert.Equal(t, "DashboardLayout", dash.Layout.Symbol)
	assert.Equal(t, "DashboardErrorBoundary", dash.ErrorBoundary.Symbol)
	assert.Equal(t, "dashboardLayoutLoader", dash.Loader.Symbol)
	require.Len(t, dash.Children, 1)
	assert.True(t, dash.Children[0].Index)
}

func TestMergePageLoaderShareRecord(t *testing.T) {
	testCases := []struct {
		name   string
		files  []string
		path   string
		page   string
		loader string
	}{
		{"static page", []string{"about.jsx", "about.loader_.js"}, "/about", "About", "aboutLoader"},
		{"dynamic page", []string{"blog/[id].jsx", "blog/[id].loader_.js"}, "/blog/:id", "BlogId", "blogIdLoader"},
		{"folder index", []string{"shop/index.jsx", "shop/index.loader_.js"}, "/shop", "ShopIndex", "shopIndexLoader"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := mustCompile(t, 2, mapFS(tc.files...))

			require.Len(t, table, 1)
			r := table[0]
			assert.Equal(t, tc.path, r.Path)
			assert.False(t, r.Index)
			require.NotNil(t, r.Page)
			require.NotNil(t, r.Loader)
			assert.Equal(t, tc.page, r.Page.Symbol)
			assert.Equal(t, tc.loader, r.Loader.Symbol)
			assert.Empty(t, r.Children)
		})
	}
}

func TestMergePageLoaderWithSiblings(t *testing.T) {
	table := mustCompile(t, 2, mapFS("about.jsx", "about.loader_.js", "about/_error.jsx", "about/team.jsx"))

	require.Len(t, table, 1)
	about := table[0]
	assert.Equal(t, "/about", about.Path)
	assert.Nil(t, about.Loader)
	assert.Equal(t, "AboutErrorBoundary", about.ErrorBoundary.Symbol)

	require.Len(t, about.Children, 2)
	index := about.Children[0]
	assert.True(t, index.Index)
	assert.Equal(t, "About", index.Page.Symbol)
	require.NotNil(t, index.Loader)
	assert.Equal(t, "aboutLoader", index.Loader.Symbol)
	assert.Equal(t, "/about/team", about.Children[1].Path)
}

func TestMergeDeferredAttachment(t *testing.T) {
	// The (x) group unwraps under v1 and sorts before "a", so /a/b is
	// created before /a exists.
	table := mustCompile(t, 1, mapFS(
		"(x)/a.b/_layout.jsx",
		"(x)/a.b/page.jsx",
		"a/_layout.jsx",
		"a/index.jsx",
	))

	require.Len(t, table, 1)
	a := table[0]
	assert.Equal(t, "/a", a.Path)
	assert.Equal(t, "ALayout", a.Layout.Symbol)
	require.Len(t, a.Children, 2)
	assert.True(t, a.Children[0].Index)

	ab := a.Children[1]
	assert.Equal(t, "/a/b", ab.Path)
	assert.Equal(t, "XABLayout", ab.Layout.Symbol)
	require.Len(t, ab.Children, 1)
	assert.Equal(t, "/a/b/page", ab.Children[0].Path)
}

func TestMergeCatchAll(t *testing.T) {
	table := mustCompile(t, 2, mapFS("docs/_any.jsx", "docs/intro.jsx"))

	require.Len(t, table, 1)
	docs := table[0]
	assert.Equal(t, "/docs", docs.Path)
	assert.True(t, docs.PathOnly())
	require.Len(t, docs.Children, 2)
	assert.Equal(t, "/docs/intro", docs.Children[0].Path)
	assert.Equal(t, "/docs/*", docs.Children[1].Path)

	table = mustCompile(t, 2, mapFS("docs/_any.jsx"))
	require.Len(t, table, 1)
	assert.Equal(t, "/docs/*", table[0].Path)
	assert.False(t, table[0].Index)
}

func TestMergeGroupPolicies(t *testing.T) {
	fsys := mapFS("(auth)/_layout.jsx", "(auth)/login.jsx")

	table := mustCompile(t, 1, fsys)
	require.Len(t, table, 1)
	assert.Equal(t, "/", table[0].Path)
	assert.Equal(t, "AuthLayout", table[0].Layout.Symbol)
	require.Len(t, table[0].Children, 1)
	assert.Equal(t, "/login", table[0].Children[0].Path)

	table = mustCompile(t, 2, fsys)
	require.Len(t, table, 1)
	assert.Equal(t, "/auth", table[0].Path)
	require.Len(t, table[0].Children, 1)
	assert.Equal(t, "/auth/login", table[0].Children[0].Path)
}

func TestMergeDuplicates(t *testing.T) {
	testCases := []struct {
		name  string
		files []string
		code  string
	}{
		{"page and folder index", []string{"about.jsx", "about/index.jsx"}, routeerrors.ErrCodeDuplicateRoute},
		{"two layouts", []string{"_layout.jsx", "_layout.tsx"}, routeerrors.ErrCodeDuplicateRoute},
		{"dot and folder page", []string{"a.b.jsx", "a/b.jsx"}, routeerrors.ErrCodeDuplicateRoute},
		{"identifier clash", []string{"a-b.jsx", "a_b.jsx"}, routeerrors.ErrCodeIdentifierCollision},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compile(t, 2, mapFS(tc.files...))
			require.Error(t, err)
			assert.True(t, routeerrors.HasCode(err, tc.code), "got %v", err)
			assert.True(t, routeerrors.IsCollision(err))
		})
	}
}

func TestMergeMounts(t *testing.T) {
	docs := Mount{Name: "docs", Path: "/docs", Symbol: "DocsRoutes", ImportPath: "./docs/routes.gen"}

	table := mustCompile(t, 2, mapFS("index.jsx", "about.jsx"), docs)
	require.Len(t, table, 3)
	assert.True(t, table[0].Index)
	assert.Equal(t, "/about", table[1].Path)
	assert.Equal(t, "/docs", table[2].Path)
	require.NotNil(t, table[2].Mount)
	assert.Equal(t, "DocsRoutes", table[2].Mount.Symbol)
}

func TestMergeMountCollisions(t *testing.T) {
	testCases := []struct {
		name  string
		files []string
		mount Mount
		code  string
	}{
		{"page path", []string{"about.jsx"}, Mount{Name: "a", Path: "/about", Symbol: "AboutRoutes", ImportPath: "./a"}, routeerrors.ErrCodeMountCollision},
		{"folder below mount", []string{"docs/intro.jsx"}, Mount{Name: "d", Path: "/docs", Symbol: "DocsRoutes", ImportPath: "./d"}, routeerrors.ErrCodeMountCollision},
		{"root", []string{"about.jsx"}, Mount{Name: "r", Path: "/", Symbol: "RootRoutes", ImportPath: "./r"}, routeerrors.ErrCodeMountCollision},
		{"symbol", []string{"docs.routes.jsx"}, Mount{Name: "d", Path: "/help", Symbol: "DocsRoutes", ImportPath: "./d"}, routeerrors.ErrCodeIdentifierCollision},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compile(t, 2, mapFS(tc.files...), tc.mount)
			require.Error(t, err)
			assert.True(t, routeerrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestMergeEmptyTree(t *testing.T) {
	table, err := Merge(nil, MergeOptions{BasePath: "/"})
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestMergeSubRouterBase(t *testing.T) {
	conv := DefaultConvention()
	table, err := Compile(mapFS("index.jsx", "intro.jsx", "guides/setup.jsx"), Options{
		Convention:   conv,
		BasePath:     "/docs",
		ImportPrefix: "./docs",
	})
	require.NoError(t, err)

	var paths []string
	Walk(table, "/docs", func(_ *Record, at string, _ int) {
		paths = append(paths, at)
	})
	assert.Equal(t, []string{"/docs", "/docs/guides/setup", "/docs/intro"}, paths)
	assert.Equal(t, 3, Count(table))
}
