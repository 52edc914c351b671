package algo

import (
	"math/rand/v2"

	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
)

func arrayInput(in validate.Input) (validate.Params, error) {
	a, err := validate.Ints(in, validate.FieldArray)
	if err != nil {
		return validate.Params{}, err
	}
	if err := validate.AtMost(validate.FieldArray, len(a), maxArrayLen); err != nil {
		return validate.Params{}, err
	}
	return validate.Params{Array: a}, nil
}

func sortExample() validate.Input {
	return validate.Input{validate.FieldArray: "3,1,4,1,5,9"}
}

func BubbleSort() Algorithm {
	return &definition{
		name:     "bubble-sort",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray},
		tieBreak: "equal neighbours are never swapped (strict >); stops after a pass with no swaps",
		example:  sortExample(),
		validate: arrayInput,
		initial:  arrayState,
		steps:    bubbleSteps,
	}
}

func bubbleSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		n := len(a)
		for end := n - 1; end > 0; end-- {
			swapped := false
			for i := 0; i < end; i++ {
				if !yield(compare(i, i+1)) {
					return
				}
				if a[i] > a[i+1] {
					a[i], a[i+1] = a[i+1], a[i]
					swapped = true
					if !yield(swap(i, i+1)) {
						return
					}
				}
			}
			if !yield(mark(end)) {
				return
			}
			if !swapped {
				break
			}
		}
		if !yield(mark(span(0, n)...)) {
			return
		}
		yield(step.Finish("sorted %v", a))
	}
}

func InsertionSort() Algorithm {
	return &definition{
		name:     "insertion-sort",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray},
		tieBreak: "an element stops moving left at the first neighbour that is not greater (stable)",
		example:  sortExample(),
		validate: arrayInput,
		initial:  arrayState,
		steps:    insertionSteps,
	}
}

func insertionSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		for i := 1; i < len(a); i++ {
			if !yield(pointer("key", i)) {
				return
			}
			for j := i; j > 0; j-- {
				if !yield(compare(j-1, j)) {
					return
				}
				if a[j-1] <= a[j] {
					break
				}
				a[j-1], a[j] = a[j], a[j-1]
				if !yield(swap(j-1, j)) {
					return
				}
			}
		}
		if !yield(mark(span(0, len(a))...)) {
			return
		}
		yield(step.Finish("sorted %v", a))
	}
}

func SelectionSort() Algorithm {
	return &definition{
		name:     "selection-sort",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray},
		tieBreak: "the leftmost minimum is selected (strict <)",
		example:  sortExample(),
		validate: arrayInput,
		initial:  arrayState,
		steps:    selectionSteps,
	}
}

func selectionSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		n := len(a)
		for i := 0; i < n; i++ {
			m := i
			if !yield(pointer("min", m)) {
				return
			}
			for j := i + 1; j < n; j++ {
				if !yield(compare(m, j)) {
					return
				}
				if a[j] < a[m] {
					m = j
					if !yield(pointer("min", m)) {
						return
					}
				}
			}
			if m != i {
				a[i], a[m] = a[m], a[i]
				if !yield(swap(i, m)) {
					return
				}
			}
			if !yield(mark(i)) {
				return
			}
		}
		yield(step.Finish("sorted %v", a))
	}
}

func MergeSort() Algorithm {
	return &definition{
		name:     "merge-sort",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray},
		tieBreak: "on equal heads the left run wins (<=), keeping the sort stable",
		example:  sortExample(),
		validate: arrayInput,
		initial:  arrayState,
		steps:    mergeSteps,
	}
}

func mergeSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		if !mergeSort(a, 0, len(a), yield) {
			return
		}
		if !yield(mark(span(0, len(a))...)) {
			return
		}
		yield(step.Finish("sorted %v", a))
	}
}

// mergeSort sorts a[lo:hi]. It returns false once the consumer stops.
func mergeSort(a []int, lo, hi int, yield func(step.Step) bool) bool {
	if hi-lo < 2 {
		return true
	}
	mid := lo + (hi-lo)/2
	if !mergeSort(a, lo, mid, yield) || !mergeSort(a, mid, hi, yield) {
		return false
	}

	left := append([]int(nil), a[lo:mid]...)
	right := append([]int(nil), a[mid:hi]...)
	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		if !yield(compare(lo+i, mid+j)) {
			return false
		}
		if left[i] <= right[j] {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
		}
		if !yield(write(k, a[k])) {
			return false
		}
		k++
	}
	for ; i < len(left); i++ {
		a[k] = left[i]
		if !yield(write(k, a[k])) {
			return false
		}
		k++
	}
	for ; j < len(right); j++ {
		a[k] = right[j]
		if !yield(write(k, a[k])) {
			return false
		}
		k++
	}
	return true
}

func QuickSort() Algorithm {
	return &definition{
		name:     "quick-sort",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray},
		tieBreak: "Lomuto partition on the last element; elements equal to the pivot stay right of it",
		example:  sortExample(),
		validate: arrayInput,
		initial:  arrayState,
		steps:    quickSteps,
	}
}

func quickSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		if !quickSort(a, 0, len(a)-1, yield) {
			return
		}
		yield(step.Finish("sorted %v", a))
	}
}

func quickSort(a []int, lo, hi int, yield func(step.Step) bool) bool {
	if lo > hi {
		return true
	}
	if lo == hi {
		return yield(mark(lo))
	}
	if !yield(pointer("pivot", hi)) {
		return false
	}
	pivot := a[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if !yield(compare(j, hi)) {
			return false
		}
		if a[j] < pivot {
			if i != j {
				a[i], a[j] = a[j], a[i]
				if !yield(swap(i, j)) {
					return false
				}
			}
			i++
		}
	}
	if i != hi {
		a[i], a[hi] = a[hi], a[i]
		if !yield(swap(i, hi)) {
			return false
		}
	}
	if !yield(mark(i)) {
		return false
	}
	return quickSort(a, lo, i-1, yield) && quickSort(a, i+1, hi, yield)
}

func Shuffle() Algorithm {
	return &definition{
		name:     "shuffle",
		family:   FamilySorting,
		fields:   []string{validate.FieldArray, validate.FieldSeed},
		tieBreak: "Fisher-Yates from the right; the seed fully determines every swap",
		example: validate.Input{
			validate.FieldArray: "1,2,3,4,5,6,7,8",
			validate.FieldSeed:  "42",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			p, err := arrayInput(in)
			if err != nil {
				return p, err
			}
			seed, err := validate.OptionalInt(in, validate.FieldSeed, 1)
			if err != nil {
				return p, err
			}
			p.Seed = int64(seed)
			return p, nil
		},
		initial: arrayState,
		steps:   shuffleSteps,
	}
}

func shuffleSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a := p.Array
		rng := rand.New(rand.NewPCG(uint64(p.Seed), uint64(p.Seed)^0x9e3779b97f4a7c15))
		for i := len(a) - 1; i > 0; i-- {
			j := rng.IntN(i + 1)
			if !yield(pointer("i", i)) {
				return
			}
			if j != i {
				a[i], a[j] = a[j], a[i]
				if !yield(swap(j, i)) {
					return
				}
			}
		}
		yield(step.Finish("shuffled %v", a))
	}
}
