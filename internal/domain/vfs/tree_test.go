package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil, "test.vfs", nil)
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestDefaultTree(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Desktop", "Documents", "Downloads", "Pictures"}, names(entries))
	for _, e := range entries {
		assert.Equal(t, KindDirectory, e.Kind)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	_, err := s.List("/Documents/Welcome.txt")
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = s.List("/Nowhere")
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestCreateCollisionAutoRename(t *testing.T) {
	s := newTestStore(t)

	p1, err := s.Create("/Documents", "note.txt", KindFile, "one")
	require.NoError(t, err)
	p2, err := s.Create("/Documents", "note.txt", KindFile, "two")
	require.NoError(t, err)
	p3, err := s.Create("/Documents", "note.txt", KindFile, "three")
	require.NoError(t, err)

	assert.Equal(t, "/Documents/note.txt", p1)
	assert.Equal(t, "/Documents/note (1).txt", p2)
	assert.Equal(t, "/Documents/note (2).txt", p3)

	content, err := s.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "two", content)

	entries, err := s.List("/Documents")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome.txt", "note.txt", "note (1).txt", "note (2).txt"}, names(entries))
}

func TestCreateCollisionNames(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"archive.tar.gz", KindFile, "archive.tar (1).gz"},
		{".bashrc", KindFile, ".bashrc (1)"},
		{"Makefile", KindFile, "Makefile (1)"},
		{"my.folder", KindDirectory, "my.folder (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.Create("/", tt.name, tt.kind, "")
			require.NoError(t, err)

			p, err := s.Create("/", tt.name, tt.kind, "")
			require.NoError(t, err)
			assert.Equal(t, "/"+tt.want, p)
		})
	}
}

func TestCreateDirectoryAndFileShareNamespace(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create("/", "Documents", KindFile, "")
	require.NoError(t, err)
	assert.Equal(t, "/Documents (1)", p)
}

func TestCreateErrors(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		dir     string
		file    string
		kind    Kind
		wantErr error
	}{
		{"missing directory", "/Nowhere", "a.txt", KindFile, ErrNotADirectory},
		{"file as directory", "/Documents/Welcome.txt", "a.txt", KindFile, ErrNotADirectory},
		{"empty name", "/Documents", "", KindFile, ErrInvalidPath},
		{"name with slash", "/Documents", "a/b", KindFile, ErrInvalidPath},
		{"name with backslash", "/Documents", `a\b`, KindFile, ErrInvalidPath},
		{"dotdot name", "/Documents", "..", KindDirectory, ErrInvalidPath},
		{"unknown kind", "/Documents", "a", Kind("link"), ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Snapshot()
			_, err := s.Create(tt.dir, tt.file, tt.kind, "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, s.Snapshot(), "failed create must not change the tree")
		})
	}
}

func TestCreateDirectoryIgnoresContent(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create("/", "Projects", KindDirectory, "ignored")
	require.NoError(t, err)

	node, ok := s.Resolve(p)
	require.True(t, ok)
	assert.Empty(t, node.Content)
	assert.NotNil(t, node.Children)
}

func TestDeleteKeepsSiblingOrder(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "sub", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/Documents/sub", "deep.txt", KindFile, "x")
	require.NoError(t, err)
	_, err = s.Create("/Documents", "last.txt", KindFile, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete("/Documents/sub"))

	entries, err := s.List("/Documents")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome.txt", "last.txt"}, names(entries))
	assert.False(t, s.Exists("/Documents/sub/deep.txt"), "subtree must go with its root")

	root, err := s.List("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Desktop", "Documents", "Downloads", "Pictures"}, names(root))
}

func TestDeleteErrors(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Delete("/"), ErrInvalidPath)
	assert.ErrorIs(t, s.Delete("/.."), ErrInvalidPath)
	assert.ErrorIs(t, s.Delete("/Documents/missing.txt"), ErrNotFound)
	assert.ErrorIs(t, s.Delete("/Nowhere/a.txt"), ErrNotFound)
	assert.ErrorIs(t, s.Delete("/Documents/Welcome.txt/x"), ErrNotFound)
}

func TestRename(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Rename("/Documents/Welcome.txt", "Readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "/Documents/Readme.txt", p)
	assert.True(t, s.Exists("/Documents/Readme.txt"))
	assert.False(t, s.Exists("/Documents/Welcome.txt"))

	entries, err := s.List("/Documents")
	require.NoError(t, err)
	assert.Equal(t, []string{"Readme.txt"}, names(entries), "rename keeps position")
}

func TestRenameCollisionIsResolved(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "a.txt", KindFile, "a")
	require.NoError(t, err)

	p, err := s.Rename("/Documents/a.txt", "Welcome.txt")
	require.NoError(t, err)
	assert.Equal(t, "/Documents/Welcome (1).txt", p)

	entries, err := s.List("/Documents")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome.txt", "Welcome (1).txt"}, names(entries), "siblings stay unique")
}

func TestRenameToSameNameIsNoop(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Rename("/Documents/Welcome.txt", "Welcome.txt")
	require.NoError(t, err)
	assert.Equal(t, "/Documents/Welcome.txt", p)
}

func TestRenameErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Rename("/", "root")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Rename("/Documents/missing.txt", "x.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Rename("/Documents/Welcome.txt", "a/b.txt")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Rename("/Documents/Welcome.txt", "")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestMove(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Move("/Documents/Welcome.txt", "/Desktop")
	require.NoError(t, err)
	assert.Equal(t, "/Desktop/Welcome.txt", p)
	assert.False(t, s.Exists("/Documents/Welcome.txt"))

	content, err := s.ReadFile("/Desktop/Welcome.txt")
	require.NoError(t, err)
	assert.Contains(t, content, "Welcome")
}

func TestMoveCollisionAutoRename(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Downloads", "Welcome.txt", KindFile, "other")
	require.NoError(t, err)

	p, err := s.Move("/Documents/Welcome.txt", "/Downloads")
	require.NoError(t, err)
	assert.Equal(t, "/Downloads/Welcome (1).txt", p)

	content, err := s.ReadFile("/Downloads/Welcome.txt")
	require.NoError(t, err)
	assert.Equal(t, "other", content, "existing file is untouched")
}

func TestMoveDirectoryWithSubtree(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "Work", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/Documents/Work", "plan.md", KindFile, "# plan")
	require.NoError(t, err)

	p, err := s.Move("/Documents/Work", "/Desktop")
	require.NoError(t, err)
	assert.Equal(t, "/Desktop/Work", p)

	content, err := s.ReadFile("/Desktop/Work/plan.md")
	require.NoError(t, err)
	assert.Equal(t, "# plan", content)
}

func TestMoveIntoOwnDescendantFails(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "a", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/Documents/a", "b", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/Documents/a/b", "c", KindDirectory, "")
	require.NoError(t, err)

	before := s.Snapshot()

	for _, dst := range []string{"/Documents/a", "/Documents/a/b", "/Documents/a/b/c"} {
		_, err = s.Move("/Documents/a", dst)
		assert.ErrorIs(t, err, ErrInvalidMove, "move into %s", dst)
		assert.Equal(t, before, s.Snapshot(), "tree must be unchanged after a rejected move")
	}
}

func TestMoveIntoSiblingWithSharedPrefixIsAllowed(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/", "ab", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/", "abc", KindDirectory, "")
	require.NoError(t, err)

	p, err := s.Move("/ab", "/abc")
	require.NoError(t, err)
	assert.Equal(t, "/abc/ab", p)
}

func TestMoveWithinSameParentAppendsToEnd(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Move("/Desktop", "/")
	require.NoError(t, err)
	assert.Equal(t, "/Desktop", p)

	entries, err := s.List("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Documents", "Downloads", "Pictures", "Desktop"}, names(entries))
}

func TestMoveErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Move("/", "/Desktop")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Move("/Documents/missing.txt", "/Desktop")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Move("/Documents/Welcome.txt", "/Nowhere")
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = s.Move("/Desktop", "/Documents/Welcome.txt")
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestReadWriteFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteFile("/Documents/Welcome.txt", "updated"))
	content, err := s.ReadFile("/Documents/Welcome.txt")
	require.NoError(t, err)
	assert.Equal(t, "updated", content)

	assert.ErrorIs(t, s.WriteFile("/Documents", "x"), ErrNotAFile)
	assert.ErrorIs(t, s.WriteFile("/Documents/missing.txt", "x"), ErrNotFound)

	_, err = s.ReadFile("/Documents")
	assert.ErrorIs(t, err, ErrNotAFile)
	_, err = s.ReadFile("/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStat(t *testing.T) {
	s := newTestStore(t)

	info, err := s.Stat("/Documents/Welcome.txt")
	require.NoError(t, err)
	assert.Equal(t, "/Documents/Welcome.txt", info.Path)
	assert.Equal(t, "Welcome.txt", info.Name)
	assert.Equal(t, KindFile, info.Kind)
	assert.Greater(t, info.Size, 0)
	assert.Contains(t, info.MimeType, "text/plain")

	info, err = s.Stat("/Documents")
	require.NoError(t, err)
	assert.Equal(t, KindDirectory, info.Kind)
	assert.Equal(t, 1, info.Children)
	assert.Equal(t, "inode/directory", info.MimeType)

	_, err = s.Stat("/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFind(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "sub", KindDirectory, "")
	require.NoError(t, err)
	_, err = s.Create("/Documents/sub", "deep.txt", KindFile, "")
	require.NoError(t, err)
	_, err = s.Create("/Desktop", "todo.md", KindFile, "")
	require.NoError(t, err)

	matches, err := s.Find("**/*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Documents/Welcome.txt", "/Documents/sub/deep.txt"}, matches)

	matches, err = s.Find("/Desktop/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Desktop/todo.md"}, matches)

	matches, err = s.Find("*.pdf")
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = s.Find("[")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestResolveReturnsCopy(t *testing.T) {
	s := newTestStore(t)

	node, ok := s.Resolve("/Documents/Welcome.txt")
	require.True(t, ok)
	node.Content = "tampered"

	content, err := s.ReadFile("/Documents/Welcome.txt")
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", content)
}

func TestEndToEndDefaultTree(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("/Documents", "a.txt", KindFile, "hi")
	require.NoError(t, err)

	entries, err := s.List("/Documents")
	require.NoError(t, err)
	assert.Contains(t, entries, Entry{Name: "a.txt", Kind: KindFile})

	_, err = s.Move("/Documents/a.txt", "/Downloads")
	require.NoError(t, err)

	_, ok := s.Resolve("/Documents/a.txt")
	assert.False(t, ok)

	node, ok := s.Resolve("/Downloads/a.txt")
	require.True(t, ok)
	assert.Equal(t, "hi", node.Content)
}
