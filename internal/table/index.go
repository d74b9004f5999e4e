package table

import (
	"fmt"
	"os"
	"path"

	"github.com/signalnine/scorecard/internal/record"
)

// IndexOptions controls which variable columns become part of the canonical
// index. Patterns use path.Match syntax against the dotted column name.
type IndexOptions struct {
	// Include: a variable joins the index only if it matches at least one
	// of these patterns.
	Include []string
	// Exclude: matching any of these removes the variable again.
	Exclude []string
	// TaskField is always the first index level.
	TaskField string
	// RequireVariable falls back to the constant agent-name column when no
	// variable survives filtering, so downstream grouping still has one
	// configuration bucket to work with.
	RequireVariable bool
}

// DefaultIndexOptions restricts the index to the agent configuration
// namespace, minus model URL fields.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Include:   []string{record.AgentPrefix + "*"},
		Exclude:   []string{"*model_url*"},
		TaskField: record.ColTask,
	}
}

// BuildIndex computes the canonical index for the table: task field plus all
// variable configuration columns passing the include/exclude filters. Null
// values in chosen index columns are coerced to the string "None" (lossy:
// nulls and the literal "None" become indistinguishable downstream) with a
// warning. Rows come back sorted by the composite key. The input table is
// not modified.
func BuildIndex(t *Table, opts IndexOptions) (*Table, error) {
	if opts.TaskField == "" {
		opts.TaskField = record.ColTask
	}
	out := ResetIndex(t)
	constants, variables := Classify(out)

	var chosen []string
	for _, col := range variables {
		include, err := matchAny(opts.Include, col)
		if err != nil {
			return nil, err
		}
		exclude, err := matchAny(opts.Exclude, col)
		if err != nil {
			return nil, err
		}
		if include && !exclude {
			chosen = append(chosen, col)
		}
	}

	if len(chosen) == 0 && opts.RequireVariable {
		if _, ok := constants[record.ColAgentName]; ok {
			chosen = []string{record.ColAgentName}
		}
	}

	for _, col := range chosen {
		coerced := false
		for i := range out.Rows {
			if out.At(i, col).IsNull() {
				out.Rows[i][col] = record.Str("None")
				coerced = true
			}
		}
		if coerced {
			fmt.Fprintf(os.Stderr,
				"warning: index column %s contains null values, replaced by the string \"None\"\n", col)
		}
	}

	out.Index = append([]string{opts.TaskField}, chosen...)
	out.SortByKey()
	return out, nil
}

// matchAny reports whether name matches any pattern. A malformed pattern is
// a configuration error.
func matchAny(patterns []string, name string) (bool, error) {
	for _, p := range patterns {
		ok, err := path.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("bad index pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// SplitByKey partitions the table by the distinct values of one column and
// rebuilds each part's index from its own variables. Splitting on an index
// column works: the key is read per row whether or not it is indexed.
func SplitByKey(t *Table, key string, opts IndexOptions) (map[string]*Table, error) {
	opts.RequireVariable = true
	parts := map[string][]Row{}
	var order []string
	for i := range t.Rows {
		val := t.At(i, key).String()
		if _, ok := parts[val]; !ok {
			order = append(order, val)
		}
		parts[val] = append(parts[val], t.Rows[i])
	}

	out := make(map[string]*Table, len(parts))
	for _, val := range order {
		sub := New(t.Cols, parts[val])
		indexed, err := BuildIndex(sub, opts)
		if err != nil {
			return nil, err
		}
		out[val] = indexed
	}
	return out, nil
}

// WithTaskCategory adds a task_category column derived from the task name
// and re-derives the index with task_category as the task field. Tasks
// missing from the mapping get a null category.
func WithTaskCategory(t *Table, categories map[string]string, opts IndexOptions) (*Table, error) {
	out := ResetIndex(t)
	if !out.HasCol(record.ColTaskCategory) {
		out.Cols = append(out.Cols, record.ColTaskCategory)
		for i := range out.Rows {
			task := out.At(i, record.ColTask).String()
			if cat, ok := categories[task]; ok {
				out.Rows[i][record.ColTaskCategory] = record.Str(cat)
			} else {
				out.Rows[i][record.ColTaskCategory] = record.Null()
			}
		}
	}
	opts.TaskField = record.ColTaskCategory
	return BuildIndex(out, opts)
}
