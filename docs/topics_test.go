package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test keeps the documentation in sync with itself:
	// 1. Every topic listed in readme.md can be loaded.
	// 2. Every .md file (besides readme.md) is listed in readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	if len(topicsInReadme) == 0 {
		t.Fatal("readme.md lists no topics")
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("topic %q listed in readme.md cannot be loaded: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() failed: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q exists but is not listed in readme.md", topic)
		}
	}
}

func TestTopics_AreValidMarkdown(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() failed: %v", err)
	}

	md := goldmark.New()
	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatalf("GetTopic(%q) failed: %v", topic, err)
			}

			source := []byte(content)
			doc := md.Parser().Parse(text.NewReader(source))

			// every topic opens with a level-1 heading naming the topic.
			var firstHeading *ast.Heading
			ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && firstHeading == nil {
					firstHeading = h
				}
				return ast.WalkContinue, nil
			})
			if firstHeading == nil || firstHeading.Level != 1 {
				t.Fatalf("topic %q does not start with a level-1 heading", topic)
			}
			title := string(firstHeading.Text(source))
			if !strings.Contains(title, topic) {
				t.Errorf("topic %q heading is %q, want it to name the topic", topic, title)
			}
		})
	}
}

func TestGetTopics_Star(t *testing.T) {
	content, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) failed: %v", err)
	}
	for _, want := range []string{"# formats", "# procedure", "# reversal"} {
		if !strings.Contains(content, want) {
			t.Errorf("GetTopics(*) is missing %q", want)
		}
	}
}

func TestGetTopic_Unknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Error("GetTopic() found a topic that does not exist")
	}
}
