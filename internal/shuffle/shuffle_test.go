package shuffle

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

// dinucleotides returns the sorted multiset of adjacent pairs in seq.
func dinucleotides(seq string) []string {
	var pairs []string
	for i := 0; i+1 < len(seq); i++ {
		pairs = append(pairs, seq[i:i+2])
	}
	sort.Strings(pairs)
	return pairs
}

func equalPairs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func Test_Shuffle_preservesPairFrequency(t *testing.T) {
	seq := "AGCAGAAGCAGGATACAGGGCAGCTCTGAGGCAAGGTAGGC" +
		"AGGTGCTGTGGTGCTCCCAGGTAGCCTAGTGGGATGCAGGAG"

	rng := rand.New(rand.NewSource(1))
	want := dinucleotides(seq)

	for i := 0; i < 100; i++ {
		shuffled, err := Shuffle(seq, rng)
		if err != nil {
			t.Fatalf("shuffle %d: %v", i, err)
		}
		if len(shuffled) != len(seq) {
			t.Fatalf("shuffle %d: length %d != %d", i, len(shuffled), len(seq))
		}
		if got := dinucleotides(shuffled); !equalPairs(got, want) {
			t.Fatalf("shuffle %d changed the dinucleotide multiset:\n%s\n%s", i, seq, shuffled)
		}
	}
}

func Test_Shuffle_deterministicOnceSeeded(t *testing.T) {
	seq := "AGCAGAAGCAGGATACAGGGCAGCTCTGAGGCAAGGTAGGC" +
		"AGGTGCTGTGGTGCTCCCAGGTAGCCTCGTGGGATGCAGGAG"

	run := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		var out []string
		for i := 0; i < 10; i++ {
			shuffled, err := Shuffle(seq, rng)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, shuffled)
		}
		return out
	}

	first := run(42)
	second := run(42)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("shuffle %d differed between identically seeded runs:\n%s\n%s", i, first[i], second[i])
		}
	}
}

func Test_Shuffle_invalidNucleotide(t *testing.T) {
	seq := "AGCAGAAGCAGGATACAGGGCAGCTCTGAGGCAAGGTAGGC" +
		"AGGTGCTGTGGTGCTCCCAGGTAGCCTXGTGGGATGCAGGAG"

	_, err := Shuffle(seq, rand.New(rand.NewSource(1)))
	var alphabetErr *InvalidAlphabetError
	if !errors.As(err, &alphabetErr) {
		t.Fatalf("want InvalidAlphabetError, got %v", err)
	}
	if len(alphabetErr.Symbols) != 1 || alphabetErr.Symbols[0] != "X" {
		t.Errorf("want offending symbol [X], got %v", alphabetErr.Symbols)
	}
}

func Test_Shuffle_mixedCase(t *testing.T) {
	seq := "TGCTTACTGGCtaattATTGGttaaggTATTTACTGATTGTCACTT" +
		"ATTATTggttaaggtATTtactGATTGtcactTACAGGGGTTAGCA"

	shuffled, err := Shuffle(seq, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(shuffled); i++ {
		switch shuffled[i] {
		case 'A', 'C', 'G', 'T':
		default:
			t.Fatalf("output contains %q, want uppercase nucleotides only", shuffled[i])
		}
	}
}

func Test_Shuffle_shortSequences(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"empty", "", ""},
		{"single", "a", "A"},
		{"pair", "AC", "AC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shuffle(tt.seq, rand.New(rand.NewSource(3)))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Shuffle(%q) = %q, want %q", tt.seq, got, tt.want)
			}
		})
	}
}

func Test_Shuffle_singleNucleotideRun(t *testing.T) {
	got, err := Shuffle("AAAAAA", rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	if got != "AAAAAA" {
		t.Errorf("Shuffle(AAAAAA) = %q", got)
	}
}
