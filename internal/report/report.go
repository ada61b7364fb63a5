package report

import (
	"math"
	"sort"
	"strings"

	"tunetalk/internal/table"
	"tunetalk/internal/textutil"
)

const (
	defaultTopN        = 20
	defaultMinTokenLen = 2
)

// Options tunes report generation. Zero values select defaults.
type Options struct {
	TopN        int
	MinTokenLen int
	Stopwords   []string
}

// Term is a ranked token or bigram.
type Term struct {
	Text  string
	Count int
}

// TableCount is the number of rows loaded from one table.
type TableCount struct {
	Source string
	Rows   int
}

// Describe holds summary statistics of a numeric sample.
type Describe struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Report is the result of Build.
type Report struct {
	Rows       int
	Authors    int
	Empty      int
	Tables     []TableCount
	WordCounts Describe
	TopTerms   []Term
	TopBigrams []Term
}

// Build computes a report over records.
func Build(records []table.Record, opts Options) Report {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	if opts.MinTokenLen <= 0 {
		opts.MinTokenLen = defaultMinTokenLen
	}
	stops := opts.Stopwords
	if stops == nil {
		stops = defaultStopwords
	}
	stopSet := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		stopSet[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	rep := Report{Rows: len(records)}
	authors := make(map[string]struct{})
	perTable := make(map[string]int)
	var order []string
	terms := make(map[string]int)
	bigrams := make(map[string]int)
	wordCounts := make([]float64, 0, len(records))

	for _, rec := range records {
		if _, ok := perTable[rec.Source]; !ok {
			order = append(order, rec.Source)
		}
		perTable[rec.Source]++
		if name := strings.TrimSpace(rec.UserName); name != "" {
			authors[name] = struct{}{}
		}
		if strings.TrimSpace(rec.Comment) == "" {
			rep.Empty++
		}

		wordCounts = append(wordCounts, float64(len(strings.Fields(rec.Comment))))

		tokens := textutil.Tokenize(rec.Comment, opts.MinTokenLen)
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := stopSet[tok]; stop {
				continue
			}
			kept = append(kept, tok)
		}
		for i, tok := range kept {
			terms[tok]++
			if i > 0 {
				bigrams[kept[i-1]+" "+tok]++
			}
		}
	}

	rep.Authors = len(authors)
	for _, source := range order {
		rep.Tables = append(rep.Tables, TableCount{Source: source, Rows: perTable[source]})
	}
	rep.WordCounts = describe(wordCounts)
	rep.TopTerms = rank(terms, opts.TopN)
	rep.TopBigrams = rank(bigrams, opts.TopN)
	return rep
}

// rank orders counts descending, ties broken alphabetically.
func rank(counts map[string]int, n int) []Term {
	out := make([]Term, 0, len(counts))
	for text, count := range counts {
		out = append(out, Term{Text: text, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// describe uses the sample standard deviation and linearly interpolated
// quantiles.
func describe(values []float64) Describe {
	d := Describe{Count: len(values)}
	if len(values) == 0 {
		return d
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	d.Mean = sum / float64(len(sorted))
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - d.Mean) * (v - d.Mean)
		}
		d.Std = math.Sqrt(sq / float64(len(sorted)-1))
	}
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.P25 = quantile(sorted, 0.25)
	d.Median = quantile(sorted, 0.5)
	d.P75 = quantile(sorted, 0.75)
	return d
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
