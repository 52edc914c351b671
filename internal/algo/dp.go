package algo

import (
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

func table(rows, cols int) [][]int {
	t := make([][]int, rows)
	for i := range t {
		t[i] = make([]int, cols)
	}
	return t
}

func cell(r, c, v int) step.Step {
	return step.Step{Kind: step.Cell, Indices: []int{r, c}, Value: v}
}

func Knapsack() Algorithm {
	return &definition{
		name:     "knapsack",
		family:   FamilyDP,
		fields:   []string{validate.FieldWeights, validate.FieldValues, validate.FieldCapacity},
		tieBreak: "excluding an item wins ties; an item is taken only when strictly better",
		example: validate.Input{
			validate.FieldWeights:  "1,3,4,5",
			validate.FieldValues:   "1,4,5,7",
			validate.FieldCapacity: "7",
		},
		validate: knapsackInput,
		initial: func(p validate.Params) viz.State {
			return viz.State{
				Array: p.Values,
				Table: table(len(p.Weights)+1, p.Capacity+1),
			}
		},
		steps: knapsackSteps,
	}
}

func knapsackInput(in validate.Input) (validate.Params, error) {
	var p validate.Params
	var err error
	if p.Weights, err = validate.Ints(in, validate.FieldWeights); err != nil {
		return p, err
	}
	if p.Values, err = validate.Ints(in, validate.FieldValues); err != nil {
		return p, err
	}
	if p.Capacity, err = validate.Int(in, validate.FieldCapacity); err != nil {
		return p, err
	}
	err = validate.First(
		validate.SameLength(validate.FieldWeights, p.Weights, validate.FieldValues, p.Values),
		validate.AtMost(validate.FieldWeights, len(p.Weights), maxItems),
		validate.NonNegative(validate.FieldWeights, p.Weights...),
		validate.NonNegative(validate.FieldValues, p.Values...),
		validate.Magnitude(validate.FieldWeights, p.Weights...),
		validate.Magnitude(validate.FieldValues, p.Values...),
		validate.NonNegative(validate.FieldCapacity, p.Capacity),
		validate.AtMost(validate.FieldCapacity, p.Capacity, maxCapacity),
	)
	return p, err
}

func knapsackSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		n, c := len(p.Weights), p.Capacity
		t := table(n+1, c+1)
		for i := 1; i <= n; i++ {
			wt, val := p.Weights[i-1], p.Values[i-1]
			if !yield(pointer("item", i-1)) {
				return
			}
			for w := 0; w <= c; w++ {
				best := t[i-1][w]
				if wt <= w {
					if take := t[i-1][w-wt] + val; take > best {
						best = take
					}
				}
				t[i][w] = best
				if !yield(cell(i, w, best)) {
					return
				}
			}
		}

		var chosen []int
		w := c
		for i := n; i > 0; i-- {
			if t[i][w] != t[i-1][w] {
				chosen = append([]int{i - 1}, chosen...)
				w -= p.Weights[i-1]
			}
		}
		if len(chosen) > 0 {
			if !yield(mark(chosen...)) {
				return
			}
		}
		yield(step.Finish("best value %d using items %v", t[n][c], chosen))
	}
}

func LCS() Algorithm {
	return &definition{
		name:     "lcs",
		family:   FamilyDP,
		fields:   []string{validate.FieldFirst, validate.FieldSecond},
		tieBreak: "when the cell above equals the cell to the left, the cell above wins",
		example: validate.Input{
			validate.FieldFirst:  "ABCBDAB",
			validate.FieldSecond: "BDCABA",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			var p validate.Params
			var err error
			if p.First, err = validate.Text(in, validate.FieldFirst); err != nil {
				return p, err
			}
			if p.Second, err = validate.Text(in, validate.FieldSecond); err != nil {
				return p, err
			}
			err = validate.First(
				validate.AtMost(validate.FieldFirst, len([]rune(p.First)), maxTextLen),
				validate.AtMost(validate.FieldSecond, len([]rune(p.Second)), maxTextLen),
			)
			return p, err
		},
		initial: func(p validate.Params) viz.State {
			return viz.State{Table: table(len([]rune(p.First))+1, len([]rune(p.Second))+1)}
		},
		steps: lcsSteps,
	}
}

func lcsSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		a, b := []rune(p.First), []rune(p.Second)
		t := table(len(a)+1, len(b)+1)
		for i := 1; i <= len(a); i++ {
			for j := 1; j <= len(b); j++ {
				var v int
				switch {
				case a[i-1] == b[j-1]:
					v = t[i-1][j-1] + 1
				case t[i-1][j] >= t[i][j-1]:
					v = t[i-1][j]
				default:
					v = t[i][j-1]
				}
				t[i][j] = v
				if !yield(cell(i, j, v)) {
					return
				}
			}
		}

		var out []rune
		i, j := len(a), len(b)
		for i > 0 && j > 0 {
			switch {
			case a[i-1] == b[j-1]:
				out = append([]rune{a[i-1]}, out...)
				if !yield(step.Step{Kind: step.Find, Indices: []int{i, j}}) {
					return
				}
				i--
				j--
			case t[i-1][j] >= t[i][j-1]:
				i--
			default:
				j--
			}
		}
		yield(step.Finish("lcs %q (length %d)", string(out), len(out)))
	}
}
