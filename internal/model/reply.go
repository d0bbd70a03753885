package model

type Branch string

const (
	BranchCode     = Branch("code")
	BranchQuestion = Branch("question")
	BranchExplain  = Branch("explain")
	BranchHelp     = Branch("help")
	BranchGeneral  = Branch("general")
)

// Branches lists every branch in routing precedence order.
func Branches() []Branch {
	return []Branch{BranchCode, BranchQuestion, BranchExplain, BranchHelp, BranchGeneral}
}

type Reply struct {
	Text   string
	Branch Branch
}

type ReplyStats struct {
	Total    int64            `json:"total"`
	Branches map[Branch]int64 `json:"branches"`
}

func NewReplyStats(counts map[Branch]int64) ReplyStats {
	stats := ReplyStats{
		Branches: make(map[Branch]int64, len(Branches())),
	}
	for _, branch := range Branches() {
		stats.Branches[branch] = counts[branch]
		stats.Total += counts[branch]
	}
	return stats
}
