package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/team-codebug/blogforge-app/config"
)

// ContentGenerator produces repurposed text from a post's markdown source.
type ContentGenerator interface {
	Summarize(ctx context.Context, markdown string) (string, error)
	LinkedInPost(ctx context.Context, title, markdown string) (string, error)
	TwitterThread(ctx context.Context, title, markdown string) ([]string, error)
	SuggestTags(ctx context.Context, markdown string) ([]string, error)
}

// NewContentGenerator picks the LLM-backed generator when an API key is
// configured and falls back to the extractive generator otherwise, so the
// repurposing endpoints work without external credentials.
func NewContentGenerator(cfg map[string]string) ContentGenerator {
	apiKey := config.GetString(cfg, "OPENAI_API_KEY", "")
	if apiKey == "" {
		log.Info().Msg("No OPENAI_API_KEY configured, using extractive content generator")
		return NewExtractiveGenerator()
	}

	model := config.GetString(cfg, "OPENAI_MODEL", "gpt-4o-mini")
	generator, err := NewLLMGenerator(apiKey, model)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize LLM generator, using extractive fallback")
		return NewExtractiveGenerator()
	}
	log.Info().Str("model", model).Msg("Using LLM content generator")
	return generator
}

// llmGenerator delegates to an OpenAI-compatible chat model.
type llmGenerator struct {
	model llms.Model
}

func NewLLMGenerator(apiKey, model string) (ContentGenerator, error) {
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &llmGenerator{model: llm}, nil
}

func (g *llmGenerator) Summarize(ctx context.Context, markdown string) (string, error) {
	prompt := "Summarize the following blog post in at most two sentences. " +
		"Reply with the summary only.\n\n" + markdown
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (g *llmGenerator) LinkedInPost(ctx context.Context, title, markdown string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short LinkedIn post announcing a blog article titled %q. "+
			"Professional tone, no hashtags, under 150 words. Reply with the post text only.\n\n%s",
		title, markdown)
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("linkedin post: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (g *llmGenerator) TwitterThread(ctx context.Context, title, markdown string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Turn the blog article titled %q below into a Twitter thread. "+
			"Each tweet under 250 characters, one tweet per line, no numbering.\n\n%s",
		title, markdown)
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("twitter thread: %w", err)
	}

	var tweets []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			tweets = append(tweets, line)
		}
	}
	return numberThread(tweets), nil
}

func (g *llmGenerator) SuggestTags(ctx context.Context, markdown string) ([]string, error) {
	prompt := "Suggest up to five lowercase single-word topic tags for the blog post below. " +
		"Reply with the tags separated by commas, nothing else.\n\n" + markdown
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}

	var tags []string
	for _, part := range strings.Split(out, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags, nil
}

// extractiveGenerator derives repurposed content from the markdown itself,
// without any external calls. Output is deterministic for a given input.
type extractiveGenerator struct{}

func NewExtractiveGenerator() ContentGenerator {
	return extractiveGenerator{}
}

const summaryLimit = 240

func (extractiveGenerator) Summarize(_ context.Context, markdown string) (string, error) {
	// Headings make useless summaries, take the first body paragraph instead.
	plain := StripMarkdown(headingLineRe.ReplaceAllString(markdown, ""))
	if plain == "" {
		return "", nil
	}

	paragraph := plain
	if idx := strings.Index(plain, "\n\n"); idx > 0 {
		paragraph = plain[:idx]
	}
	paragraph = strings.Join(strings.Fields(paragraph), " ")
	return truncateAtWord(paragraph, summaryLimit), nil
}

func (g extractiveGenerator) LinkedInPost(ctx context.Context, title, markdown string) (string, error) {
	summary, err := g.Summarize(ctx, markdown)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("New on the blog: ")
	b.WriteString(title)
	if summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	b.WriteString("\n\nFull post on my blog.")
	return b.String(), nil
}

const tweetBodyLimit = 250

func (extractiveGenerator) TwitterThread(_ context.Context, title, markdown string) ([]string, error) {
	plain := StripMarkdown(markdown)
	text := title
	if plain != "" {
		text = title + ": " + strings.Join(strings.Fields(plain), " ")
	}

	var tweets []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > tweetBodyLimit {
			tweets = append(tweets, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		tweets = append(tweets, current.String())
	}
	return numberThread(tweets), nil
}

func (extractiveGenerator) SuggestTags(_ context.Context, markdown string) ([]string, error) {
	plain := strings.ToLower(StripMarkdown(markdown))
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(plain, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	}) {
		if len(word) < 5 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > 5 {
		words = words[:5]
	}
	return words, nil
}

// numberThread appends (i/n) markers when the thread has more than one tweet.
func numberThread(tweets []string) []string {
	if len(tweets) <= 1 {
		return tweets
	}
	numbered := make([]string, len(tweets))
	for i, tweet := range tweets {
		numbered[i] = fmt.Sprintf("%s (%d/%d)", tweet, i+1, len(tweets))
	}
	return numbered
}

func truncateAtWord(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

var (
	codeFenceRe   = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe  = regexp.MustCompile("`[^`]*`")
	imageRe       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe     = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	headingLineRe = regexp.MustCompile(`(?m)^#{1,6}[^\n]*\n?`)
	emphasisRe    = regexp.MustCompile(`[*_~]{1,3}`)
)

// StripMarkdown reduces markdown to plain text good enough for summaries and
// tweets. It is intentionally lossy.
func StripMarkdown(markdown string) string {
	text := codeFenceRe.ReplaceAllString(markdown, "")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "along": true, "among": true,
	"because": true, "before": true, "being": true, "between": true,
	"could": true, "doing": true, "every": true, "first": true, "going": true,
	"great": true, "their": true, "there": true, "these": true, "thing": true,
	"things": true, "think": true, "those": true, "through": true,
	"under": true, "where": true, "which": true, "while": true, "would": true,
	"really": true, "should": true, "still": true, "using": true, "other": true,
}
