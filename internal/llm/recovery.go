package llm

import (
	"encoding/json"
	"strings"

	"github.com/medscan-io/medscan/internal/common"
)

// measurementsKey is the envelope field holding the record array. The
// recovery scan anchors on it when strict parsing fails.
const measurementsKey = `"measurements"`

// tailLen bounds the diagnostic tail included in a no-records error.
const tailLen = 200

// RecoverEnvelope parses inference-service response text into candidate
// records. The producer is not guaranteed to return well-formed output:
// responses are frequently truncated mid-record by output-length limits,
// or wrapped in markdown code fences. Strategy:
//
//  1. Strip surrounding code fences.
//  2. Try strict JSON decoding of the whole envelope.
//  3. On failure, scan the array character by character, tracking brace
//     nesting, string-literal state, and escapes, and keep every
//     syntactically complete record object found before the damage.
//
// A response truncated after record 7 of 10 yields exactly 7 records;
// zero recoverable records is an explicit error, never a silent empty
// result.
func RecoverEnvelope(responseText string) ([]RawCandidateRecord, error) {
	s := stripCodeFences(strings.TrimSpace(responseText))

	var env Envelope
	if err := json.Unmarshal([]byte(s), &env); err == nil && len(env.Measurements) > 0 {
		return env.Measurements, nil
	}

	keyIdx := strings.Index(s, measurementsKey)
	if keyIdx < 0 {
		return nil, common.NewNoRecordsError(tail(s))
	}
	openIdx := strings.Index(s[keyIdx:], "[")
	if openIdx < 0 {
		return nil, common.NewNoRecordsError(tail(s))
	}

	candidates := scanRecords(s[keyIdx+openIdx+1:])
	if len(candidates) == 0 {
		return nil, common.NewNoRecordsError(tail(s))
	}

	// Synthesize a minimal well-formed envelope from the recovered
	// candidates and decode it the normal way.
	rebuilt := `{"measurements":[` + strings.Join(candidates, ",") + `]}`
	if err := json.Unmarshal([]byte(rebuilt), &env); err != nil {
		return nil, common.NewNoRecordsError(tail(s))
	}
	return env.Measurements, nil
}

// scanRecords walks the interior of the record array as a character
// stream. Depth changes are tracked only outside string literals; each
// time nesting returns to zero after having been positive, the text since
// the last boundary is a candidate record. Invalid candidates are skipped,
// not fatal.
func scanRecords(s string) []string {
	var candidates []string
	depth := 0
	inString := false
	escaped := false
	segStart := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if cand, ok := completeRecord(s[segStart : i+1]); ok {
					candidates = append(candidates, cand)
				}
				segStart = i + 1
			}
		case ']':
			if depth == 0 {
				return candidates // array closed cleanly
			}
		}
	}
	return candidates
}

// completeRecord trims a candidate segment, strips one stray comma from
// either end, and accepts it only if it is a braced, standalone-parsable
// JSON value.
func completeRecord(seg string) (string, bool) {
	cand := strings.TrimSpace(seg)
	cand = strings.TrimPrefix(cand, ",")
	cand = strings.TrimSuffix(cand, ",")
	cand = strings.TrimSpace(cand)
	if !strings.HasPrefix(cand, "{") || !strings.HasSuffix(cand, "}") {
		return "", false
	}
	if !json.Valid([]byte(cand)) {
		return "", false
	}
	return cand, true
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, if present.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the rest of the fence line (e.g. "json").
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func tail(s string) string {
	if len(s) <= tailLen {
		return s
	}
	return s[len(s)-tailLen:]
}
