package analysis

import "testing"

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		reference string
		want      string
	}{
		{"circuits", "Find the voltage across the capacitor in this circuit", "", "circuits"},
		{"mathematics", "Calculate the derivative of the integral", "", "mathematics"},
		{"databases", "Write an SQL query using an index", "", "databases"},
		{"reference contributes", "Solve this problem", "chapter on fourier spectrum sampling", "signals"},
		{"case insensitive", "VOLTAGE and CURRENT in the CIRCUIT", "", "circuits"},
		{"no match falls back", "What color is the sky?", "", TopicGeneral},
		{"empty input", "", "", TopicGeneral},
		{"tie broken by declaration order", "signal network", "", "signals"},
		{"highest overlap wins", "network protocol routing with one signal", "", "networks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			got := a.ClassifyTopic(tt.text, tt.reference)
			if got != tt.want {
				t.Errorf("ClassifyTopic(%q, %q) = %q, want %q", tt.text, tt.reference, got, tt.want)
			}
		})
	}
}

func TestClassifyTopicCache(t *testing.T) {
	a := New()

	first := a.ClassifyTopic("voltage current circuit", "notes.pdf")
	if len(a.topics.cache) != 1 {
		t.Fatalf("expected 1 cache entry after first call, got %d", len(a.topics.cache))
	}

	second := a.ClassifyTopic("voltage current circuit", "notes.pdf")
	if second != first {
		t.Errorf("cached result %q differs from first result %q", second, first)
	}
	if len(a.topics.cache) != 1 {
		t.Errorf("expected cache hit, got %d entries", len(a.topics.cache))
	}

	// A different reference is a different cache key.
	a.ClassifyTopic("voltage current circuit", "other.pdf")
	if len(a.topics.cache) != 2 {
		t.Errorf("expected 2 cache entries, got %d", len(a.topics.cache))
	}
}

func TestClassifyTopicDeterministic(t *testing.T) {
	text := "the transformer supplies power to the synchronous motor"
	want := New().ClassifyTopic(text, "")
	for i := 0; i < 5; i++ {
		if got := New().ClassifyTopic(text, ""); got != want {
			t.Fatalf("run %d: ClassifyTopic = %q, want %q", i, got, want)
		}
	}
}
