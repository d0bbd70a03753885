package usecase

var openers = []string{
	"I understand your question. Let me help you with that.",
	"That's an interesting point. Here's what I think:",
	"Based on what you're asking, I can provide the following information:",
	"Great question! Let me break this down for you.",
	"I'd be happy to help you understand this better.",
}

var elaborations = []string{
	"This is a complex topic that involves multiple factors. Consider the historical context, current trends, and future implications when analyzing this subject.",
	"From a practical standpoint, there are several approaches you could take. Each has its own advantages and trade-offs that you should carefully weigh.",
	"The key principles to remember here are consistency, clarity, and consideration of edge cases. These will guide you toward the right solution.",
	"When dealing with this kind of situation, it's important to think both strategically and tactically. Look at both the big picture and the fine details.",
	"Research has shown that the most effective approach combines theory with practice. Try to apply these concepts to real-world scenarios.",
}

var closings = []string{
	"I hope this helps clarify things. Let me know if you have any other questions!",
	"Feel free to ask if you need more details on any specific aspect.",
	"Is there anything else you'd like me to explain or expand on?",
	"Let me know if this answers your question or if you need further clarification.",
	"I'm here to help if you need any additional information!",
}

const (
	codeSample = "Here's a simple example:\n\n" +
		"```javascript\n" +
		"function example() {\n" +
		"  console.log(\"Hello, World!\");\n" +
		"  return true;\n" +
		"}\n" +
		"```\n\n"

	considerations = "Here are some key points to consider:\n\n" +
		"1. **First consideration**: Understanding the fundamentals is crucial\n" +
		"2. **Second consideration**: Practical application brings theory to life\n" +
		"3. **Third consideration**: Continuous learning leads to mastery\n"

	stepByStep = "Let me break this down step by step:\n\n" +
		"**Step 1**: First, we need to understand the basic concept. This forms the foundation for everything else.\n\n" +
		"**Step 2**: Next, we build upon that foundation with more advanced ideas.\n\n" +
		"**Step 3**: Finally, we apply these concepts to practical situations.\n\n"

	helpPreamble = "Absolutely! I'm here to assist you. "

	perspectives = "This involves understanding multiple perspectives and considering various factors that might influence the outcome."
)
