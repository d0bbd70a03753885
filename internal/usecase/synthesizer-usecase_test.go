package usecase

import (
	"strings"
	"testing"

	"github.com/iamvkosarev/canned-chat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userHistory(content string) model.History {
	return model.History{{Role: model.RoleUser, Content: content}}
}

// splitReply checks opener/body/closing framing and returns the body.
func splitReply(t *testing.T, text string) string {
	t.Helper()

	var opener string
	for _, candidate := range openers {
		if strings.HasPrefix(text, candidate+"\n\n") {
			opener = candidate
			break
		}
	}
	require.NotEmpty(t, opener, "reply must start with an opener: %q", text)

	var closing string
	for _, candidate := range closings {
		if strings.HasSuffix(text, "\n\n"+candidate) {
			closing = candidate
			break
		}
	}
	require.NotEmpty(t, closing, "reply must end with a closing: %q", text)

	body := strings.TrimSuffix(strings.TrimPrefix(text, opener+"\n\n"), "\n\n"+closing)
	for _, candidate := range openers {
		assert.NotContains(t, body, candidate, "opener must appear exactly once")
	}
	for _, candidate := range closings {
		assert.NotContains(t, body, candidate, "closing must appear exactly once")
	}
	return body
}

func containsAny(s string, pool []string) bool {
	for _, candidate := range pool {
		if strings.Contains(s, candidate) {
			return true
		}
	}
	return false
}

func TestSynthesize_EmptyHistory(t *testing.T) {
	_, err := NewSynthesizer(nil).Synthesize(nil)
	assert.ErrorIs(t, err, model.ErrEmptyHistory)

	_, err = NewSynthesizer(nil).Synthesize(model.History{})
	assert.ErrorIs(t, err, model.ErrEmptyHistory)
}

func TestSynthesize_Branches(t *testing.T) {
	tests := []struct {
		name    string
		content string
		branch  model.Branch
		check   func(t *testing.T, body string)
	}{
		{
			name:    "code",
			content: "Show me some CODE",
			branch:  model.BranchCode,
			check: func(t *testing.T, body string) {
				assert.Equal(t, codeSample+elaborations[2], body)
			},
		},
		{
			name:    "program",
			content: "write a program",
			branch:  model.BranchCode,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, "```javascript\nfunction example() {\n  console.log(\"Hello, World!\");\n  return true;\n}\n```")
			},
		},
		{
			name:    "question",
			content: "Why is the sky blue?",
			branch:  model.BranchQuestion,
			check: func(t *testing.T, body string) {
				assert.True(t, strings.HasSuffix(body, "\n\n"+considerations))
				assert.True(t, containsAny(body, elaborations))
			},
		},
		{
			name:    "explain",
			content: "Please EXPLAIN recursion",
			branch:  model.BranchExplain,
			check: func(t *testing.T, body string) {
				assert.Equal(t, stepByStep+elaborations[0], body)
			},
		},
		{
			name:    "help",
			content: "I need help",
			branch:  model.BranchHelp,
			check: func(t *testing.T, body string) {
				assert.Equal(t, helpPreamble+elaborations[1], body)
			},
		},
		{
			name:    "can you",
			content: "Can you do this for me",
			branch:  model.BranchHelp,
			check: func(t *testing.T, body string) {
				assert.Equal(t, helpPreamble+elaborations[1], body)
			},
		},
		{
			name:    "general",
			content: "Hello there",
			branch:  model.BranchGeneral,
			check: func(t *testing.T, body string) {
				assert.True(t, strings.HasSuffix(body, "\n\n"+perspectives))
				assert.True(t, containsAny(body, elaborations))
			},
		},
	}

	synthesizer := NewSynthesizer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				reply, err := synthesizer.Synthesize(userHistory(tt.content))
				require.NoError(t, err)
				assert.Equal(t, tt.branch, reply.Branch)
				tt.check(t, splitReply(t, reply.Text))
			}
		})
	}
}

func TestRouteBranch_Precedence(t *testing.T) {
	tests := []struct {
		content string
		want    model.Branch
	}{
		{content: "how does this code work", want: model.BranchCode},
		{content: "why does my program crash", want: model.BranchCode},
		{content: "explain how this works", want: model.BranchQuestion},
		{content: "can you explain this", want: model.BranchExplain},
		{content: "help me explain", want: model.BranchExplain},
		{content: "what can you help with", want: model.BranchQuestion},
		{content: "please help", want: model.BranchHelp},
		{content: "", want: model.BranchGeneral},
		{content: "showhowto", want: model.BranchQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, routeBranch(tt.content))
		})
	}
}

func TestSynthesize_OnlyLastMessageRoutes(t *testing.T) {
	history := model.History{
		{Role: model.RoleUser, Content: "show me code"},
		{Role: model.RoleAssistant, Content: "here is code"},
		{Role: model.RoleUser, Content: "thanks"},
	}
	reply, err := NewSynthesizer(nil).Synthesize(history)
	require.NoError(t, err)
	assert.Equal(t, model.BranchGeneral, reply.Branch)
	assert.NotContains(t, reply.Text, "```")
}

func TestSynthesize_UsesRandomSource(t *testing.T) {
	var draws []int
	intn := func(n int) int {
		draws = append(draws, n)
		return n - 1
	}
	reply, err := NewSynthesizer(intn).Synthesize(userHistory("tell me a story"))
	require.NoError(t, err)

	// opener, elaboration, closing
	assert.Equal(t, []int{len(openers), len(elaborations), len(closings)}, draws)
	expected := openers[len(openers)-1] + "\n\n" +
		elaborations[len(elaborations)-1] + "\n\n" + perspectives + "\n\n" +
		closings[len(closings)-1]
	assert.Equal(t, expected, reply.Text)
}

func TestSynthesize_FixedBranchesDrawTwice(t *testing.T) {
	for _, content := range []string{"code", "explain", "help"} {
		draws := 0
		intn := func(int) int {
			draws++
			return 0
		}
		_, err := NewSynthesizer(intn).Synthesize(userHistory(content))
		require.NoError(t, err)
		assert.Equal(t, 2, draws, content)
	}
}
