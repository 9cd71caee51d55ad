package analysis

import "strings"

// TopicGeneral is the fallback label when no topic keywords match.
const TopicGeneral = "general"

// topicEntry pairs a topic label with its keyword set. The declaration order
// matters: when two topics score the same keyword overlap, the one declared
// first wins.
type topicEntry struct {
	name     string
	keywords []string
}

var topicTable = []topicEntry{
	{"mathematics", []string{"formula", "equation", "calculate", "derivative", "integral", "matrix", "algebra", "calculus", "probability"}},
	{"circuits", []string{"circuit", "voltage", "current", "resistance", "capacitor", "inductor", "impedance", "kcl", "kvl", "ohm"}},
	{"signals", []string{"signal", "frequency", "amplitude", "fourier", "filter", "modulation", "spectrum", "convolution", "sampling"}},
	{"control", []string{"control", "feedback", "stability", "response", "transfer function", "pid", "bode", "nyquist", "root locus"}},
	{"digital", []string{"digital", "logic", "binary", "gate", "flip-flop", "counter", "memory", "boolean", "multiplexer"}},
	{"power", []string{"power", "energy", "motor", "generator", "transformer", "transmission", "protection", "synchronous"}},
	{"communication", []string{"communication", "antenna", "modulation", "channel", "noise", "protocol", "coding", "multiplexing"}},
	{"electromagnetics", []string{"electromagnetic", "wave", "field", "maxwell", "transmission line", "waveguide", "antenna"}},
	{"materials", []string{"material", "semiconductor", "conductor", "dielectric", "crystal", "doping", "band gap"}},
	{"programming", []string{"algorithm", "data structure", "complexity", "sorting", "searching", "graph", "tree", "dynamic"}},
	{"networks", []string{"network", "protocol", "tcp", "ip", "routing", "switching", "osi", "ethernet"}},
	{"databases", []string{"database", "sql", "query", "normalization", "acid", "transaction", "index"}},
}

type topicKey struct {
	text      string
	reference string
}

// classifier maps question text to a topic label by keyword overlap.
// Results are cached per (text, reference) pair for the lifetime of the
// owning Analyzer. The cache is append-only and not safe for concurrent
// writers; each test submission gets its own Analyzer.
type classifier struct {
	cache map[topicKey]string
}

func newClassifier() *classifier {
	return &classifier{cache: make(map[topicKey]string)}
}

// classify returns the topic whose keyword set overlaps most with the
// whitespace tokens of text and reference combined. Ties go to the topic
// declared first; zero overlap everywhere yields TopicGeneral.
func (c *classifier) classify(text, reference string) string {
	key := topicKey{text: text, reference: reference}
	if topic, ok := c.cache[key]; ok {
		return topic
	}

	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text + " " + reference)) {
		tokens[w] = struct{}{}
	}

	best := TopicGeneral
	bestScore := 0
	for _, entry := range topicTable {
		score := 0
		for _, kw := range entry.keywords {
			if _, ok := tokens[kw]; ok {
				score++
			}
		}
		if score > bestScore {
			best = entry.name
			bestScore = score
		}
	}

	c.cache[key] = best
	return best
}
