package ai

import (
	"fmt"
	"strings"
)

const summarizeSystemPromptTmpl = `You are specialized in summarizing articles. Your task is to generate a concise summary in %s with a %d-line summary. Summarize only if the article is related to %s. If not, return '%s' and nothing else.`

// SummarizePrompt builds the system and user prompts for one article. The
// system prompt carries the language, length and relevance rules; the user
// prompt carries the article content and its source link so the summary can
// cite it.
func SummarizePrompt(cfg PromptConfig, content, sourceURL string) (systemPrompt string, userPrompt string) {
	cfg = cfg.withDefaults()

	systemPrompt = fmt.Sprintf(summarizeSystemPromptTmpl, cfg.Language, cfg.Lines, cfg.Subject, cfg.Sentinel)

	var b strings.Builder
	b.WriteString("Article content:\n")
	b.WriteString(content)
	b.WriteString("\n\nSource link:\n")
	b.WriteString(sourceURL)
	userPrompt = b.String()

	return systemPrompt, userPrompt
}

// isSentinel reports whether a trimmed answer is the relevance sentinel.
// Models sometimes echo the quoting used in the instruction, so one layer of
// matching quotes or backticks is ignored.
func isSentinel(answer, sentinel string) bool {
	if answer == sentinel {
		return true
	}
	if len(answer) < 2 {
		return false
	}
	first, last := answer[0], answer[len(answer)-1]
	if first == last && strings.ContainsRune("'\"`", rune(first)) {
		return strings.TrimSpace(answer[1:len(answer)-1]) == sentinel
	}
	return false
}
