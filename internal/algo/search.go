package algo

import (
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
)

func sortedTargetInput(in validate.Input) (validate.Params, error) {
	p, err := arrayInput(in)
	if err != nil {
		return p, err
	}
	if err := validate.Sorted(validate.FieldArray, p.Array); err != nil {
		return p, err
	}
	if p.Target, err = validate.Int(in, validate.FieldTarget); err != nil {
		return p, err
	}
	return p, nil
}

func BinarySearch() Algorithm {
	return &definition{
		name:     "binary-search",
		family:   FamilySearching,
		fields:   []string{validate.FieldArray, validate.FieldTarget},
		tieBreak: "lower bound: duplicates resolve to the leftmost occurrence",
		example: validate.Input{
			validate.FieldArray:  "1,3,3,5,8,13,21",
			validate.FieldTarget: "3",
		},
		validate: sortedTargetInput,
		initial:  arrayState,
		steps:    binarySearchSteps,
	}
}

func binarySearchSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		lo, hi := 0, len(a)
		for lo < hi {
			mid := lo + (hi-lo)/2
			for _, s := range []step.Step{pointer("lo", lo), pointer("hi", hi), pointer("mid", mid)} {
				if !yield(s) {
					return
				}
			}
			if !yield(step.Step{Kind: step.Compare, Indices: []int{mid}, Value: p.Target}) {
				return
			}
			if a[mid] < p.Target {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(a) && a[lo] == p.Target {
			if !yield(mark(lo)) {
				return
			}
			yield(step.Finish("found %d at index %d", p.Target, lo))
			return
		}
		yield(step.Finish("%d not found", p.Target))
	}
}

func PairSum() Algorithm {
	return &definition{
		name:     "pair-sum",
		family:   FamilySearching,
		fields:   []string{validate.FieldArray, validate.FieldTarget},
		tieBreak: "the outermost matching pair wins; the left pointer advances when the sum is too small",
		example: validate.Input{
			validate.FieldArray:  "1,2,4,7,11,15",
			validate.FieldTarget: "15",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			p, err := sortedTargetInput(in)
			if err != nil {
				return p, err
			}
			return p, validate.MinLength(validate.FieldArray, p.Array, 2)
		},
		initial: arrayState,
		steps:   pairSumSteps,
	}
}

func pairSumSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		lo, hi := 0, len(a)-1
		for lo < hi {
			if !yield(pointer("lo", lo)) || !yield(pointer("hi", hi)) {
				return
			}
			if !yield(compare(lo, hi)) {
				return
			}
			sum := a[lo] + a[hi]
			switch {
			case sum == p.Target:
				if !yield(mark(lo, hi)) {
					return
				}
				yield(step.Finish("%d + %d = %d at indices %d and %d", a[lo], a[hi], p.Target, lo, hi))
				return
			case sum < p.Target:
				lo++
			default:
				hi--
			}
		}
		yield(step.Finish("no pair sums to %d", p.Target))
	}
}

func MaxWindowSum() Algorithm {
	return &definition{
		name:     "max-window-sum",
		family:   FamilySearching,
		fields:   []string{validate.FieldArray, validate.FieldWindow},
		tieBreak: "the earliest window wins ties (strict >)",
		example: validate.Input{
			validate.FieldArray:  "2,1,5,1,3,2,6,-1",
			validate.FieldWindow: "3",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			p, err := arrayInput(in)
			if err != nil {
				return p, err
			}
			if p.Window, err = validate.Int(in, validate.FieldWindow); err != nil {
				return p, err
			}
			return p, validate.InRange(validate.FieldWindow, p.Window, 1, len(p.Array))
		},
		initial: arrayState,
		steps:   windowSteps,
	}
}

func windowSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a, k := p.Array, p.Window
		sum := 0
		for i := 0; i < k; i++ {
			sum += a[i]
		}
		if !yield(step.Step{Kind: step.Window, Indices: []int{0, k - 1}, Value: sum}) {
			return
		}
		best, bestLo := sum, 0
		for i := k; i < len(a); i++ {
			sum += a[i] - a[i-k]
			lo := i - k + 1
			if !yield(step.Step{Kind: step.Window, Indices: []int{lo, i}, Value: sum}) {
				return
			}
			if sum > best {
				best, bestLo = sum, lo
				if !yield(pointer("best", lo)) {
					return
				}
			}
		}
		if !yield(mark(span(bestLo, bestLo+k)...)) {
			return
		}
		yield(step.Finish("max sum %d in window [%d, %d]", best, bestLo, bestLo+k-1))
	}
}
