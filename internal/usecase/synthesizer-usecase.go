package usecase

import (
	"math/rand/v2"
	"strings"

	"github.com/iamvkosarev/canned-chat/internal/model"
)

// IntN returns a uniform value in [0, n).
type IntN func(n int) int

// Keyword sets in routing order. The first set with a substring hit wins.
var branchKeywords = []struct {
	branch   model.Branch
	keywords []string
}{
	{branch: model.BranchCode, keywords: []string{"code", "program"}},
	{branch: model.BranchQuestion, keywords: []string{"how", "what", "why"}},
	{branch: model.BranchExplain, keywords: []string{"explain"}},
	{branch: model.BranchHelp, keywords: []string{"help", "can you"}},
}

// Synthesizer assembles canned replies from the template pools.
// It holds no state besides its random source and is safe for concurrent use
// as long as intn is.
type Synthesizer struct {
	intn IntN
}

// NewSynthesizer returns a Synthesizer drawing from intn, or from the
// process-wide math/rand/v2 source when intn is nil.
func NewSynthesizer(intn IntN) *Synthesizer {
	if intn == nil {
		intn = rand.IntN
	}
	return &Synthesizer{
		intn: intn,
	}
}

// Synthesize builds a reply to the last message of history.
func (s *Synthesizer) Synthesize(history model.History) (model.Reply, error) {
	lastMessage, ok := history.Last()
	if !ok {
		return model.Reply{}, model.ErrEmptyHistory
	}
	content := strings.ToLower(lastMessage.Content)
	branch := routeBranch(content)

	var response strings.Builder
	response.WriteString(s.pick(openers))
	response.WriteString("\n\n")

	switch branch {
	case model.BranchCode:
		response.WriteString(codeSample)
		response.WriteString(elaborations[2])
	case model.BranchQuestion:
		response.WriteString(s.pick(elaborations))
		response.WriteString("\n\n")
		response.WriteString(considerations)
	case model.BranchExplain:
		response.WriteString(stepByStep)
		response.WriteString(elaborations[0])
	case model.BranchHelp:
		response.WriteString(helpPreamble)
		response.WriteString(elaborations[1])
	default:
		response.WriteString(s.pick(elaborations))
		response.WriteString("\n\n")
		response.WriteString(perspectives)
	}

	response.WriteString("\n\n")
	response.WriteString(s.pick(closings))

	return model.Reply{
		Text:   response.String(),
		Branch: branch,
	}, nil
}

func (s *Synthesizer) pick(pool []string) string {
	return pool[s.intn(len(pool))]
}

// routeBranch expects already lowercased content.
func routeBranch(content string) model.Branch {
	for _, set := range branchKeywords {
		for _, keyword := range set.keywords {
			if strings.Contains(content, keyword) {
				return set.branch
			}
		}
	}
	return model.BranchGeneral
}
