package folio_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	folio "github.com/alnah/go-folio"
)

const exampleArtifact = `[
  {"slug": "hello", "frontmatter": {"title": "Hello", "date": "2024-03-05"}, "content": "# Hi\n\nFirst post."},
  {"slug": "pg", "frontmatter": {"title": "Postgres", "isSeries": true, "seriesSlug": "pg"}, "content": "Overview."},
  {"slug": "pg-2", "frontmatter": {"title": "Queries", "isSeriesEntry": true, "seriesSlug": "pg", "chapterNumber": 2}, "content": "Two."},
  {"slug": "pg-1", "frontmatter": {"title": "Setup", "isSeriesEntry": true, "seriesSlug": "pg", "chapterNumber": 1, "nextChapter": "pg-2"}, "content": "One."}
]`

// writeExampleArtifact stores the artifact in a temporary directory.
func writeExampleArtifact() (string, func()) {
	dir, err := os.MkdirTemp("", "folio-example")
	if err != nil {
		log.Fatal(err)
	}
	path := filepath.Join(dir, "posts.json")
	if err := os.WriteFile(path, []byte(exampleArtifact), 0o600); err != nil {
		log.Fatal(err)
	}
	return path, func() { _ = os.RemoveAll(dir) }
}

func Example() {
	path, cleanup := writeExampleArtifact()
	defer cleanup()

	repo := folio.OpenRepository(path, nil)
	a := folio.NewAssembler(repo)

	post, ok := a.LoadPost(context.Background(), "hello")
	if !ok {
		log.Fatal("post not found")
	}
	fmt.Println(post.Title)
	fmt.Println(post.DisplayDate)
	fmt.Println(post.ReadTime)
	// Output:
	// Hello
	// March 5, 2024
	// 5 min read
}

func ExampleAssembler_SeriesChapters() {
	path, cleanup := writeExampleArtifact()
	defer cleanup()

	a := folio.NewAssembler(folio.OpenRepository(path, nil))

	for _, ch := range a.SeriesChapters(context.Background(), "pg") {
		fmt.Printf("%v %s", *ch.ChapterNumber, ch.Title)
		if ch.NextChapter != nil {
			fmt.Printf(" -> %s", ch.NextChapter.Slug)
		}
		fmt.Println()
	}
	// Output:
	// 1 Setup -> pg-2
	// 2 Queries
}

func ExampleWithDateFormat() {
	path, cleanup := writeExampleArtifact()
	defer cleanup()

	a := folio.NewAssembler(folio.OpenRepository(path, nil), folio.WithDateFormat("iso"))

	post, _ := a.LoadPost(context.Background(), "hello")
	fmt.Println(post.DisplayDate)
	// Output: 2024-03-05
}

func ExampleOpenRepository_missing() {
	repo := folio.OpenRepository(filepath.Join(os.TempDir(), "no-such-folio-artifact.json"), nil)
	a := folio.NewAssembler(repo)

	fmt.Println(len(a.LoadAllPosts(context.Background())))
	// Output: 0
}
