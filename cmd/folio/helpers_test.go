package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and content fixtures
// ---------------------------------------------------------------------------

// testEnv returns an Environment with captured output and a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return now },
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

// fixturePosts is a small blog: two standalone posts and a three-part
// series with its overview page.
var fixturePosts = map[string]string{
	"hello-world.md": `---
title: Hello World
date: 2024-03-05
excerpt: First post
categories: [Go, Notes]
icon: Database
iconColor: purple
---
# Hello

Some **bold** text and a [follow-up](./pg-setup.md).

` + "```go\nfmt.Println(\"hi\")\n```\n",
	"older.md": `---
title: Older Post
date: 2023-11-20
---
Plain body.
`,
	"postgres.md": `---
title: Postgres From Scratch
date: 2024-01-01
isSeries: true
seriesSlug: postgres
---
Overview.
`,
	"pg-setup.md": `---
title: "Postgres: Setup"
chapterTitle: Setup
date: 2024-01-02
isSeriesEntry: true
seriesSlug: postgres
chapterNumber: 1
---
Install it.
`,
	"pg-queries.md": `---
title: "Postgres: Queries"
chapterTitle: Queries
date: 2024-01-03
isSeriesEntry: true
seriesSlug: postgres
chapterNumber: 2
---
SELECT things.
`,
}

// writeContent writes files into a fresh content directory.
func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "content")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// compileFixture compiles fixturePosts and returns the artifact path.
func compileFixture(t *testing.T) string {
	t.Helper()
	dir := writeContent(t, fixturePosts)
	artifact := filepath.Join(t.TempDir(), "posts.json")

	env, _, stderr := testEnv()
	if err := runCompile(context.Background(), []string{dir, "-o", artifact, "-q"}, env); err != nil {
		t.Fatalf("compile fixture: %v (stderr: %s)", err, stderr.String())
	}
	return artifact
}

// writeFile writes text to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
