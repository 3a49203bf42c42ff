package scheduler

import "sort"

// explorationQuota is the round-1 total: approximately 20% of the total
// budget, but never less than one per technique and never more than the
// remaining budget.
func explorationQuota(totalBudget, numTechniques, remaining int) int {
	if numTechniques == 0 {
		return 0
	}
	quota := ceilDiv(totalBudget*20, 100)
	if quota < numTechniques {
		quota = numTechniques
	}
	if quota > remaining {
		quota = remaining
	}
	return quota
}

// allocateEven spreads quota round-robin across ids, every id getting at
// least floor(quota/len(ids)) and the remainder distributed one-by-one
// in id order for determinism.
func allocateEven(quota int, ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	if len(ids) == 0 || quota <= 0 {
		return out
	}
	sorted := sortedCopy(ids)
	base := quota / len(sorted)
	remainder := quota % len(sorted)
	for i, id := range sorted {
		n := base
		if i < remainder {
			n++
		}
		out[id] = n
	}
	return out
}

// allocateWeakFocus splits quota between weak and non-weak techniques
// per the exploitation rule: at least focusPct of quota goes to weak
// techniques, distributed proportional to each one's deficit
// (weakThreshold - f1, floored at a small epsilon so a technique with
// f1==weakThreshold still receives a nonzero share); the remainder is
// split evenly across non-weak techniques (or back to weak ones, evenly,
// if there are none).
func allocateWeakFocus(quota int, weakIDs, nonWeakIDs []string, f1 map[string]float64, weakThreshold, focusPct float64) map[string]int {
	out := make(map[string]int)
	if quota <= 0 {
		return out
	}

	weakQuota := ceilDiv(int(focusPct*float64(quota)*1000), 1000)
	if len(weakIDs) == 0 {
		weakQuota = 0
	}
	if weakQuota > quota {
		weakQuota = quota
	}
	remainderQuota := quota - weakQuota

	for id, n := range allocateByDeficit(weakQuota, weakIDs, f1, weakThreshold) {
		out[id] += n
	}

	if len(nonWeakIDs) > 0 {
		for id, n := range allocateEven(remainderQuota, nonWeakIDs) {
			out[id] += n
		}
	} else {
		for id, n := range allocateEven(remainderQuota, weakIDs) {
			out[id] += n
		}
	}
	return out
}

// allocateByDeficit distributes quota across ids proportional to each
// id's (weakThreshold - f1[id]) deficit, with a floor so every weak
// technique gets at least one test when quota allows it.
func allocateByDeficit(quota int, ids []string, f1 map[string]float64, weakThreshold float64) map[string]int {
	out := make(map[string]int, len(ids))
	if len(ids) == 0 || quota <= 0 {
		return out
	}

	sorted := sortedCopy(ids)
	deficits := make(map[string]float64, len(sorted))
	total := 0.0
	for _, id := range sorted {
		d := weakThreshold - f1[id]
		if d <= 0 {
			d = 0.01
		}
		deficits[id] = d
		total += d
	}

	assigned := 0
	for _, id := range sorted {
		share := int(float64(quota) * deficits[id] / total)
		out[id] = share
		assigned += share
	}
	// Distribute any rounding remainder one-by-one, highest deficit first.
	remaining := quota - assigned
	byDeficitDesc := append([]string(nil), sorted...)
	sort.Slice(byDeficitDesc, func(i, j int) bool {
		if deficits[byDeficitDesc[i]] != deficits[byDeficitDesc[j]] {
			return deficits[byDeficitDesc[i]] > deficits[byDeficitDesc[j]]
		}
		return byDeficitDesc[i] < byDeficitDesc[j]
	})
	for i := 0; remaining > 0 && len(byDeficitDesc) > 0; i++ {
		out[byDeficitDesc[i%len(byDeficitDesc)]]++
		remaining--
	}

	// Ensure every weak technique gets at least one test when quota
	// allows it, taking that test from the largest allocation so the
	// total stays within quota.
	if quota >= len(sorted) {
		for _, id := range sorted {
			if out[id] == 0 {
				donor := byDeficitDesc[0]
				for _, d := range byDeficitDesc {
					if out[d] > out[donor] {
						donor = d
					}
				}
				out[donor]--
				out[id] = 1
			}
		}
	}
	return out
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func ceilDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	if num%den == 0 {
		return num / den
	}
	return num/den + 1
}
