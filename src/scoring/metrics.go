package scoring

// Counters holds the four raw outcome counts.
type Counters struct {
	TP, FP, FN, TN int
}

// Add returns a copy of c with outcome's count incremented.
func (c Counters) Add(o Outcome) Counters {
	switch o {
	case TruePositive:
		c.TP++
	case FalsePositive:
		c.FP++
	case FalseNegative:
		c.FN++
	case TrueNegative:
		c.TN++
	}
	return c
}

// Total returns TP+FP+FN+TN.
func (c Counters) Total() int {
	return c.TP + c.FP + c.FN + c.TN
}

// Metrics is the standard classification-rate bundle derived from
// Counters. Every rate is 0.0 on an undefined (zero-denominator)
// computation rather than NaN.
type Metrics struct {
	TP, FP, FN, TN int
	Accuracy       float64
	Precision      float64
	Recall         float64
	Specificity    float64
	FPR            float64
	FNR            float64
	F1             float64
}

// Compute derives a Metrics snapshot from c.
func (c Counters) Compute() Metrics {
	n := c.Total()
	m := Metrics{TP: c.TP, FP: c.FP, FN: c.FN, TN: c.TN}

	m.Accuracy = safeDiv(c.TP+c.TN, n)
	m.Precision = safeDiv(c.TP, c.TP+c.FP)
	m.Recall = safeDiv(c.TP, c.TP+c.FN)
	m.Specificity = safeDiv(c.TN, c.TN+c.FP)
	m.FPR = safeDiv(c.FP, c.FP+c.TN)
	m.FNR = safeDiv(c.FN, c.FN+c.TP)

	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func safeDiv(num, den int) float64 {
	if den == 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}
