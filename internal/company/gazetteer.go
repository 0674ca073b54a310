package company

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target is one operator-configured company the fragment strategy can
// recognize in severely corrupted OCR text where regex matching fails
// but fragments of the correct name survive.
type Target struct {
	CanonicalName string   `yaml:"name"`
	Fragments     []string `yaml:"fragments"`
	Confidence    int      `yaml:"confidence"`
}

// gazetteerFile is the on-disk shape of the gazetteer config.
type gazetteerFile struct {
	Targets []Target `yaml:"targets"`
}

// LoadGazetteer reads the fragment-matching targets from a YAML file.
func LoadGazetteer(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	var f gazetteerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}
	for i, t := range f.Targets {
		if strings.TrimSpace(t.CanonicalName) == "" {
			return nil, fmt.Errorf("gazetteer target %d: name is required", i)
		}
		if len(t.Fragments) == 0 {
			return nil, fmt.Errorf("gazetteer target %q: at least one fragment is required", t.CanonicalName)
		}
	}
	return f.Targets, nil
}

// minFragmentHitRate is the fraction of a target's fragments that must
// appear among the document's tokens before the canonical name is
// emitted.
const minFragmentHitRate = 0.6

// defaultGazetteerConfidence applies when a target does not set one.
const defaultGazetteerConfidence = 75

var tokenRe = regexp.MustCompile(`[A-Za-z]{3,}`)

// matchGazetteer tokenizes the text into alphabetic runs and checks
// each target's fragments against the token set.
func matchGazetteer(text string, targets []Target) []Candidate {
	if len(targets) == 0 {
		return nil
	}

	tokens := make(map[string]bool)
	for _, t := range tokenRe.FindAllString(text, -1) {
		tokens[strings.ToLower(t)] = true
	}
	if len(tokens) == 0 {
		return nil
	}

	var out []Candidate
	for _, target := range targets {
		hits := 0
		for _, frag := range target.Fragments {
			frag = strings.ToLower(strings.TrimSpace(frag))
			if frag == "" {
				continue
			}
			if tokens[frag] {
				hits++
				continue
			}
			// Fragments shorter than a full token still count when some
			// token contains them.
			for tok := range tokens {
				if strings.Contains(tok, frag) {
					hits++
					break
				}
			}
		}
		if float64(hits)/float64(len(target.Fragments)) < minFragmentHitRate {
			continue
		}
		conf := target.Confidence
		if conf <= 0 {
			conf = defaultGazetteerConfidence
		}
		if conf > 100 {
			conf = 100
		}
		out = append(out, Candidate{
			Name:       target.CanonicalName,
			Confidence: conf,
			Pattern:    "gazetteer_fragments",
			Original:   strings.Join(target.Fragments, " "),
		})
	}
	return out
}
