package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed records.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

const (
	// OperatorSpeaker is the speaker label that opens a new section of a call.
	OperatorSpeaker = "Operator"

	// UnknownSpeaker replaces an answer speaker the model could not identify.
	UnknownSpeaker = "UNKNOWN_SPEAKER"
)

// Turn is one utterance in a call transcript.
type Turn struct {
	Speaker string
	Content string
}

// IsOperator reports whether the turn was spoken by the call operator.
func (t Turn) IsOperator() bool {
	return strings.TrimSpace(t.Speaker) == OperatorSpeaker
}

// Transcript is the ordered list of turns for one earnings call.
type Transcript struct {
	Key   FileKey
	Turns []Turn
}

// Section is a contiguous run of turns that begins with an Operator turn.
type Section struct {
	Index int
	Turns []Turn
}

// Text renders the section as newline-joined "speaker: content" lines.
func (s Section) Text() string {
	var sb strings.Builder
	for i, turn := range s.Turns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(turn.Speaker)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
	}
	return sb.String()
}

// QAPair is a single question and the answer given to it.
type QAPair struct {
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	QuestionSpeaker string `json:"q_speaker"`
	AnswerSpeaker   string `json:"a_speaker"`
}

// Insight is the single-sentence takeaway of a QA pair and the steps that led to it.
type Insight struct {
	ReasoningSteps []string `json:"reasoning_steps"`
	Insight        string   `json:"insight"`
}

// Role selects which side of a QA pair is being summarized.
type Role int

const (
	RoleQuestion Role = iota + 1
	RoleAnswer
)

func (r Role) String() string {
	switch r {
	case RoleQuestion:
		return "question"
	case RoleAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// Company is a row of the company reference table.
type Company struct {
	Ticker   string
	Name     string
	Country  string
	Sector   string
	Industry string
}

// MetadataRecord is the persisted output for one QA pair.
type MetadataRecord struct {
	Company         string   `json:"company"`
	Country         string   `json:"country"`
	Ticker          string   `json:"ticker"`
	Date            string   `json:"date"`
	Year            int      `json:"year"`
	Quarter         int      `json:"q"`
	Sector          string   `json:"sector"`
	Industry        string   `json:"industry"`
	QuestionSpeaker string   `json:"q_speaker"`
	AnswerSpeaker   string   `json:"a_speaker"`
	QuestionSummary string   `json:"question_summary"`
	AnswerSummary   string   `json:"answer_summary"`
	QuestionFull    string   `json:"question_full"`
	AnswerFull      string   `json:"answer_full"`
	Insight         string   `json:"insight"`
	ReasoningSteps  []string `json:"reasoning_steps"`
}

// IndexText is the text embedded for similarity search.
func (r *MetadataRecord) IndexText() string {
	return strings.Join([]string{r.QuestionSummary, r.AnswerSummary, r.Insight}, "\n")
}

// ContentID derives a stable identifier from the artifact the record was
// read from and the record's origin and content, so re-indexing the same
// artifact overwrites rather than duplicates.
func (r *MetadataRecord) ContentID(artifact string) ID {
	return IDFromContent(strings.Join([]string{artifact, r.Ticker, r.Date, r.QuestionFull, r.AnswerFull}, "\x1f"))
}

// IndexedRecord is a metadata record stored in the knowledge base with its embedding.
type IndexedRecord struct {
	Id        ID
	Key       string // artifact key the record was read from, e.g. AAPL_2024_Q1
	Record    MetadataRecord
	Vector    []float32
	IndexedAt time.Time
}

// SearchResult is a search hit with the full record and its relevance score.
type SearchResult struct {
	Record *IndexedRecord
	Score  float32
}

// RunEntry is the last known outcome of processing one transcript.
type RunEntry struct {
	Key             string
	State           string
	Records         int
	SectionsSkipped int
	PairsSkipped    int
	Reason          string
	RunID           string
	UpdatedAt       time.Time
}
