// Package shuffle implements the Altschul-Erickson dinucleotide shuffle:
// a randomized Eulerian-path reconstruction over the nucleotide-transition
// graph of a sequence. The shuffled sequence has exactly the same multiset
// of adjacent nucleotide pairs as the input, which makes it suitable for
// building null models of motif content.
package shuffle

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// InvalidAlphabetError reports symbols outside the {A, C, G, T} alphabet.
type InvalidAlphabetError struct {
	// Symbols are the offending characters, deduplicated and sorted
	Symbols []string
}

func (e *InvalidAlphabetError) Error() string {
	return fmt.Sprintf("sequence contains non-nucleotide symbols: %s", strings.Join(e.Symbols, ", "))
}

// edge is one directed arc of the transition graph.
type edge struct {
	from, to byte
}

// Shuffle returns a dinucleotide-preserving permutation of section drawn
// with rng. The input is uppercased before processing and the output is
// always uppercase. Identical rng state yields identical output, so
// permutation tests are reproducible. rng is owned by the caller and is
// the only source of randomness used.
//
// Sequences of length zero or one have no transitions and are returned
// unchanged (uppercased).
func Shuffle(section string, rng *rand.Rand) (string, error) {
	section = strings.ToUpper(section)

	nucleotides, err := nucleotideList(section)
	if err != nil {
		return "", err
	}

	if len(section) < 2 {
		return section, nil
	}

	trans := transitions(section)
	last := section[len(section)-1]
	lastEdges := pickEdges(nucleotides, trans, last, rng)

	// Pin each chosen edge as the final successor of its nucleotide:
	// remove it, shuffle the rest of the list, re-append it. The walk
	// below then cannot strand unvisited edges before reaching the end.
	for _, e := range lastEdges {
		removeFirst(trans, e)
	}
	for _, n := range nucleotides {
		succ := trans[n]
		rng.Shuffle(len(succ), func(i, j int) {
			succ[i], succ[j] = succ[j], succ[i]
		})
	}
	for _, e := range lastEdges {
		trans[e.from] = append(trans[e.from], e.to)
	}

	// Walk the graph from the original first character, consuming the
	// head of each successor list until every edge has been used.
	out := make([]byte, 1, len(section))
	out[0] = section[0]
	current := section[0]
	for len(out) < len(section) {
		succ := trans[current]
		next := succ[0]
		trans[current] = succ[1:]
		out = append(out, next)
		current = next
	}

	return string(out), nil
}

// nucleotideList returns the distinct nucleotides present in section,
// sorted alphabetically so downstream iteration never depends on map
// order.
func nucleotideList(section string) ([]byte, error) {
	var seen, invalid [256]bool
	for i := 0; i < len(section); i++ {
		switch c := section[i]; c {
		case 'A', 'C', 'G', 'T':
			seen[c] = true
		default:
			invalid[c] = true
		}
	}

	var symbols []string
	for c := 0; c < len(invalid); c++ {
		if invalid[c] {
			symbols = append(symbols, string(byte(c)))
		}
	}
	if len(symbols) > 0 {
		sort.Strings(symbols)
		return nil, &InvalidAlphabetError{Symbols: symbols}
	}

	var list []byte
	for _, c := range []byte{'A', 'C', 'G', 'T'} {
		if seen[c] {
			list = append(list, c)
		}
	}
	return list, nil
}

// transitions builds the adjacency map of the transition graph:
// trans[x] holds every nucleotide observed immediately after x in
// section, duplicates retained. Rebuilt fresh per call, never shared.
func transitions(section string) map[byte][]byte {
	trans := make(map[byte][]byte, 4)
	for i := 0; i+1 < len(section); i++ {
		trans[section[i]] = append(trans[section[i]], section[i+1])
	}
	return trans
}

// pickEdges draws one outgoing edge for every nucleotide except the
// terminal one, redrawing until the chosen set leaves each nucleotide
// connected to the terminal. A valid draw always exists because the
// graph comes from a single traversal ending at last, so the loop
// terminates.
func pickEdges(nucleotides []byte, trans map[byte][]byte, last byte, rng *rand.Rand) []edge {
	for {
		edges := make([]edge, 0, len(nucleotides))
		for _, from := range nucleotides {
			if from == last {
				continue
			}
			succ := trans[from]
			edges = append(edges, edge{from: from, to: succ[rng.Intn(len(succ))]})
		}
		if connectedToLast(edges, nucleotides, last) {
			return edges
		}
	}
}

// connectedToLast reports whether every nucleotide reaches last through
// the candidate edges. Connectivity is back-propagated from last for at
// most n-1 rounds, the longest possible path over n distinct nucleotides.
func connectedToLast(edges []edge, nucleotides []byte, last byte) bool {
	connected := map[byte]bool{last: true}
	for round := 0; round < len(nucleotides)-1; round++ {
		for _, e := range edges {
			if connected[e.to] {
				connected[e.from] = true
			}
		}
	}

	for _, n := range nucleotides {
		if !connected[n] {
			return false
		}
	}
	return true
}

// removeFirst deletes one occurrence of e from the transition map.
func removeFirst(trans map[byte][]byte, e edge) {
	succ := trans[e.from]
	for i, to := range succ {
		if to == e.to {
			trans[e.from] = append(succ[:i], succ[i+1:]...)
			return
		}
	}
}
