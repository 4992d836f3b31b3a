package contextbuilder

import (
	"strings"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/entity"
)

// Assemble joins passage contents with blank lines, preserving retrieval
// rank order. An empty result set produces an empty context block.
func Assemble(passages []entity.RetrievedPassage) string {
	if len(passages) == 0 {
		return ""
	}

	contents := make([]string, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
	}
	return strings.Join(contents, constant.ChatContextPassageSeparator)
}
