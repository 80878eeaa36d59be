package insight

import (
	"math"
	"strings"
	"unicode"
)

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Priority labels
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// compound score normalisation constant and negation dampening
const (
	normAlpha   = 15.0
	negationMul = -0.74
	boostStep   = 0.293
)

// lexicon scores on the usual -4..+4 valence scale
var lexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "excellent": 3.2, "amazing": 2.8, "awesome": 3.1,
	"love": 3.2, "like": 1.5, "happy": 2.7, "pleased": 1.9, "glad": 2.0,
	"thanks": 1.9, "thank": 1.5, "appreciate": 1.9, "perfect": 2.7, "fantastic": 2.6,
	"wonderful": 2.7, "nice": 1.8, "impressive": 2.3, "satisfied": 1.8, "success": 2.7,
	"successful": 2.8, "helpful": 1.9, "efficient": 1.8, "improve": 1.9, "improved": 2.1,
	"exciting": 2.2, "excited": 1.4, "best": 3.2, "positive": 2.3, "fine": 0.8,
	"bad": -2.5, "terrible": -2.1, "awful": -2.0, "horrible": -2.5, "hate": -2.7,
	"poor": -2.1, "disappointed": -1.9, "disappointing": -2.2, "unhappy": -1.8, "angry": -2.3,
	"frustrated": -2.0, "frustrating": -2.0, "annoyed": -1.6, "problem": -1.7, "problems": -1.7,
	"issue": -0.8, "issues": -0.8, "broken": -1.8, "fail": -2.5, "failed": -2.3,
	"failure": -2.3, "delay": -1.3, "delayed": -1.3, "late": -1.0, "wrong": -2.1,
	"worse": -2.1, "worst": -3.1, "slow": -0.8, "unacceptable": -2.0, "complaint": -1.5,
	"confusing": -1.3, "bug": -1.4, "bugs": -1.4, "error": -1.6, "errors": -1.6,
	"missing": -1.2, "urgent": -0.5, "crisis": -3.1, "emergency": -1.6, "critical": -1.7,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nothing": true,
	"isn't": true, "aren't": true, "wasn't": true, "weren't": true, "don't": true,
	"doesn't": true, "didn't": true, "can't": true, "cannot": true, "won't": true,
	"without": true,
}

var boosters = map[string]float64{
	"very": boostStep, "really": boostStep, "extremely": boostStep, "so": boostStep,
	"incredibly": boostStep, "totally": boostStep, "absolutely": boostStep,
	"slightly": -boostStep, "somewhat": -boostStep, "barely": -boostStep,
}

// SentimentScore returns a compound valence in [-1, 1]
func SentimentScore(text string) float64 {
	words := tokenize(text)
	var sum float64
	for i, w := range words {
		v, ok := lexicon[w]
		if !ok {
			continue
		}
		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := words[i-back]
			if b, ok := boosters[prev]; ok && back == 1 {
				if v > 0 {
					v += b
				} else {
					v -= b
				}
			}
			if negations[prev] {
				v *= negationMul
				break
			}
		}
		sum += v
	}
	if strings.Count(text, "!") > 0 && sum != 0 {
		bang := math.Min(float64(strings.Count(text, "!")), 4) * 0.292
		if sum > 0 {
			sum += bang
		} else {
			sum -= bang
		}
	}
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normAlpha)
}

// Sentiment classifies text as positive, negative or neutral
func Sentiment(text string) string {
	return ClassifySentiment(SentimentScore(text))
}

// ClassifySentiment maps a compound score to a label
func ClassifySentiment(compound float64) string {
	switch {
	case compound >= 0.05:
		return SentimentPositive
	case compound <= -0.05:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

var urgencyWords = []string{"urgent", "asap", "immediately", "critical", "crucial", "emergency"}

// Priority scores urgency words plus a negative tone
func Priority(text, sentiment string) string {
	lower := strings.ToLower(text)
	score := 0
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	if sentiment == SentimentNegative {
		score++
	}
	switch {
	case score >= 2:
		return PriorityHigh
	case score == 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
