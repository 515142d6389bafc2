package workflow

// Topological scheduler: deterministic Kahn layering with declaration-order
// tiebreaking. The wave sequence it produces is the sole source of truth for
// emission order in every execution mode.

// Wave is an ordered set of step IDs with no pending dependencies at one
// iteration of Kahn's algorithm. Order within a wave is declaration order.
type Wave []string

// BuildWaves layers validated steps into waves.
//
// In-degree is computed over depends_on edges. At each iteration every node
// with in-degree zero forms the next wave, ordered by original declaration
// index. Disabled steps participate in the layering and appear in their
// wave; the executor skips them at emission time. Edges pointing AT a
// disabled step do not count toward in-degree: a disabled dependency is
// already satisfied, and counting it would deadlock the layering when a
// cycle runs through a disabled step (which validation permits).
//
// parallel_group is opaque and ignored here; order_index has no effect.
//
// BuildWaves assumes Validate has passed. A residual cycle (which Validate
// would have rejected) yields a CodeValidation error rather than a hang.
func BuildWaves(steps []WorkflowStep) ([]Wave, error) {
	if len(steps) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(steps)) // step_id -> declaration index
	for i, s := range steps {
		index[s.StepID] = i
	}

	inDegree := make([]int, len(steps))
	dependents := make([][]int, len(steps)) // edges dep -> dependent

	for i, s := range steps {
		for _, dep := range s.DependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, NewError(CodeValidation, "step %q depends on unknown step %q", s.StepID, dep).
					WithContext("step_id", s.StepID)
			}
			if !steps[j].Enabled {
				continue // satisfied by definition
			}
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// frontier holds declaration indices with in-degree zero, kept sorted by
	// construction: we always scan in ascending index order.
	frontier := make([]int, 0, len(steps))
	for i := range steps {
		if inDegree[i] == 0 {
			frontier = append(frontier, i)
		}
	}

	waves := make([]Wave, 0, len(steps))
	placed := 0

	for len(frontier) > 0 {
		wave := make(Wave, 0, len(frontier))
		next := make([]int, 0)

		for _, i := range frontier {
			wave = append(wave, steps[i].StepID)
			placed++
			for _, d := range dependents[i] {
				inDegree[d]--
				if inDegree[d] == 0 {
					next = append(next, d)
				}
			}
		}

		waves = append(waves, wave)

		// Declaration-order tiebreak: the next frontier is sorted by index.
		sortInts(next)
		frontier = next
	}

	if placed != len(steps) {
		return nil, NewError(CodeValidation, "dependency cycle prevents topological layering").
			WithContext("placed", placed).WithContext("total", len(steps))
	}

	return waves, nil
}

// sortInts is an insertion sort; frontiers are small and mostly ordered.
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// SequentialWaves flattens a wave layering into waves of size one,
// preserving wave-major then declaration order. SEQUENTIAL and BATCH modes
// execute this flattened layering.
func SequentialWaves(waves []Wave) []Wave {
	var out []Wave
	for _, w := range waves {
		for _, id := range w {
			out = append(out, Wave{id})
		}
	}
	return out
}
