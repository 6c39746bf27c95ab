package extraction

const (
	// SentinelNoQA is returned by the model when a section holds no exchange.
	SentinelNoQA = "NO_QA"

	// SentinelNoInsight is returned by the model when a pair holds no insight.
	SentinelNoInsight = "NO_INSIGHT"
)

const structurePrompt = `Given a section of an earnings call transcript, identify and separate the question and answer.
If there are multiple distinct questions or points within the same section, split them into separate Q&A pairs.
Return in JSON format as a list of Q&A pairs, where each pair has:
- 'question': the full question text
- 'answer': the full answer text
- 'q_speaker': the EXACT full name of the person asking the question
- 'a_speaker': the EXACT full name of the person answering

You must include the FULL NAME of speakers. If a speaker's full name is not provided, mark as 'Analyst'.

Format: {"qa_pairs": [{"question": "...", "answer": "...", "q_speaker": "...", "a_speaker": "..."}]}
If there's no clear Q&A structure, return 'NO_QA'.`

const insightPrompt = `Analyze this Q&A from an earnings call.
First, provide your step-by-step factual reasoning process, focusing on the key business facts and numbers mentioned.
Exclude any speaker information or subjective interpretations.
Number each reasoning step (1., 2., etc.).
Then, extract the key business insight in one sentence.

Return in JSON format:
{
    "reasoning_steps": ["1. fact1", "2. fact2", "3. fact3"],
    "insight": "final insight"
}

If no meaningful insight can be extracted, return 'NO_INSIGHT'.`

const questionSummaryPrompt = "Summarize this earnings call question into a brief, clear form while maintaining the key points. Return only the summarized question."

const answerSummaryPrompt = "Summarize this earnings call answer into a brief, clear form while maintaining the key points. Return only the summarized answer."
