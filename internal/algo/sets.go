package algo

import (
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

func UnionFind() Algorithm {
	return &definition{
		name:     "union-find",
		family:   FamilyDisjoint,
		fields:   []string{validate.FieldSize, validate.FieldPairs},
		tieBreak: "union by rank; on equal rank the first root becomes the parent",
		example: validate.Input{
			validate.FieldSize:  "8",
			validate.FieldPairs: "0-1, 2-3, 1-3, 4-5, 6-7, 5-7, 3-7",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			var p validate.Params
			var err error
			if p.Size, err = validate.Int(in, validate.FieldSize); err != nil {
				return p, err
			}
			if err = validate.InRange(validate.FieldSize, p.Size, 1, maxSlots); err != nil {
				return p, err
			}
			if p.Pairs, err = validate.Pairs(in, validate.FieldPairs); err != nil {
				return p, err
			}
			return p, validate.Indices(validate.FieldPairs, p.Pairs, p.Size)
		},
		initial: func(p validate.Params) viz.State {
			return viz.State{Array: span(0, p.Size)}
		},
		steps: unionFindSteps,
	}
}

func unionFindSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		parent := span(0, p.Size)
		rank := make([]int, p.Size)
		sets := p.Size

		// find walks to the root, then compresses the walked path.
		find := func(x int) (int, bool) {
			path := []int{x}
			for parent[x] != x {
				x = parent[x]
				path = append(path, x)
			}
			root := x
			if !yield(step.Step{Kind: step.Find, Indices: path}) {
				return root, false
			}
			for _, v := range path {
				if parent[v] != root {
					parent[v] = root
					if !yield(link(v, root)) {
						return root, false
					}
				}
			}
			return root, true
		}

		for _, pr := range p.Pairs {
			ra, ok := find(pr[0])
			if !ok {
				return
			}
			rb, ok := find(pr[1])
			if !ok {
				return
			}
			if ra == rb {
				continue
			}
			child, root := rb, ra
			switch {
			case rank[ra] < rank[rb]:
				child, root = ra, rb
			case rank[ra] == rank[rb]:
				rank[ra]++
			}
			parent[child] = root
			sets--
			if !yield(link(child, root)) {
				return
			}
		}
		yield(step.Finish("%d disjoint sets", sets))
	}
}

func link(child, root int) step.Step {
	return step.Step{Kind: step.Link, Indices: []int{child}, Value: root}
}

func HashInsert() Algorithm {
	return &definition{
		name:     "hash-insert",
		family:   FamilyHashing,
		fields:   []string{validate.FieldSize, validate.FieldKeys},
		tieBreak: "linear probing from key mod size; duplicate keys are skipped",
		example: validate.Input{
			validate.FieldSize: "11",
			validate.FieldKeys: "22,1,13,11,24,33,18,42,31",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			var p validate.Params
			var err error
			if p.Size, err = validate.Int(in, validate.FieldSize); err != nil {
				return p, err
			}
			if err = validate.InRange(validate.FieldSize, p.Size, 1, maxSlots); err != nil {
				return p, err
			}
			if p.Keys, err = validate.Ints(in, validate.FieldKeys); err != nil {
				return p, err
			}
			return p, validate.First(
				validate.AtMost(validate.FieldKeys, len(p.Keys), maxArrayLen),
				validate.AtMost(validate.FieldKeys, distinct(p.Keys), p.Size),
			)
		},
		initial: func(p validate.Params) viz.State {
			return viz.State{Slots: make([]viz.Slot, p.Size)}
		},
		steps: hashInsertSteps,
	}
}

// distinct counts unique keys; repeats never take a slot.
func distinct(keys []int) int {
	seen := make(map[int]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}

func hashInsertSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		m := p.Size
		slots := make([]viz.Slot, m)
		inserted, probes := 0, 0
		for _, key := range p.Keys {
			h := ((key % m) + m) % m
			for i := 0; i < m; i++ {
				s := (h + i) % m
				probes++
				if !yield(step.Step{Kind: step.Probe, Indices: []int{s}, Value: key}) {
					return
				}
				if !slots[s].Used {
					slots[s] = viz.Slot{Key: key, Used: true}
					inserted++
					if !yield(step.Step{Kind: step.Insert, Indices: []int{s}, Value: key}) {
						return
					}
					break
				}
				if slots[s].Key == key {
					break
				}
			}
		}
		yield(step.Finish("inserted %d keys with %d probes", inserted, probes))
	}
}
